package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type StatusResponseBody struct {
	Status  string `json:"status" example:"ok"`
	Version uint64 `json:"version" doc:"Number of committed writes since start, used for list cursors"`
}

type StatusOutput struct {
	Body StatusResponseBody
}

type versioned interface {
	Version() uint64
}

type Handler struct {
	Storage versioned
}

func NewHandler(store versioned) *Handler {
	return &Handler{Storage: store}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Liveness",
		Tags:        []string{"Status"},
	}, h.handle)
}

func (h *Handler) handle(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	return &StatusOutput{Body: StatusResponseBody{Status: "ok", Version: h.Storage.Version()}}, nil
}
