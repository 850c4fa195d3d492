package session

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-tracker/internal/identity"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *identity.Sessions) {
	t.Helper()
	sessions := identity.NewSessions("test-secret")
	_, api := humatest.New(t)
	api.UseMiddleware(sessions.Middleware(api))
	NewGetSessionHandler().Register(api)
	NewSignOutHandler(sessions).Register(api)
	return api, sessions
}

func issue(t *testing.T, sessions *identity.Sessions) string {
	t.Helper()
	token, err := sessions.Issue(identity.User{Name: "Amina", Email: "amina@example.com"}, time.Hour)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func TestHTTP_GetSession(t *testing.T) {
	api, sessions := newTestAPI(t)

	resp := api.Get("/v1/session", issue(t, sessions))

	assert.Equal(t, http.StatusOK, resp.Code)
	var user identity.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "amina@example.com", user.Email)
	assert.Equal(t, "Amina", user.Name)
}

func TestHTTP_GetSession_Anonymous(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/v1/session")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHTTP_GetSession_BadToken(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/v1/session", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHTTP_SignOut_RevokesToken(t *testing.T) {
	api, sessions := newTestAPI(t)
	auth := issue(t, sessions)

	resp := api.Delete("/v1/session", auth)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Get("/v1/session", auth)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHTTP_SignOut_Anonymous(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Delete("/v1/session")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
