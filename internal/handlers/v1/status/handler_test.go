package status

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedVersion uint64

func (v fixedVersion) Version() uint64 { return uint64(v) }

func TestHandler_GoodMethod(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(fixedVersion(7)).Register(api)

	resp := api.Get("/status")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body StatusResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, uint64(7), body.Version)
}

func TestHandler_BadMethod(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(fixedVersion(0)).Register(api)

	resp := api.Post("/status", map[string]any{})

	assert.NotEqual(t, http.StatusOK, resp.Code)
}
