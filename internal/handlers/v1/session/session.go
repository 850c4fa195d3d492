package session

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/handlers/v1/common"
	"github.com/carson-networks/finance-tracker/internal/identity"
)

type GetSessionOutput struct {
	Body identity.User
}

// GetSessionHandler handles GET /v1/session.
type GetSessionHandler struct{}

func NewGetSessionHandler() *GetSessionHandler {
	return &GetSessionHandler{}
}

func (h *GetSessionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/v1/session",
		Summary:     "Signed-in user",
		Description: "Returns the user of the bearer token on the request.",
		Tags:        []string{"Session"},
	}, h.handle)
}

func (h *GetSessionHandler) handle(ctx context.Context, _ *struct{}) (*GetSessionOutput, error) {
	user, ok := identity.CurrentUser(ctx)
	if !ok {
		return nil, common.Error(ctx, "not signed in", identity.ErrNoSession)
	}
	return &GetSessionOutput{Body: *user}, nil
}

type SignOutOutput struct {
	Status int
}

type signer interface {
	SignOut(ctx context.Context) error
}

// SignOutHandler handles DELETE /v1/session.
type SignOutHandler struct {
	Sessions signer
}

func NewSignOutHandler(sessions signer) *SignOutHandler {
	return &SignOutHandler{Sessions: sessions}
}

func (h *SignOutHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "sign-out",
		Method:      http.MethodDelete,
		Path:        "/v1/session",
		Summary:     "Sign out",
		Description: "Revokes the bearer token on the request until it expires.",
		Tags:        []string{"Session"},
	}, h.handle)
}

func (h *SignOutHandler) handle(ctx context.Context, _ *struct{}) (*SignOutOutput, error) {
	if err := h.Sessions.SignOut(ctx); err != nil {
		return nil, common.Error(ctx, "failed to sign out", err)
	}
	return &SignOutOutput{Status: http.StatusNoContent}, nil
}
