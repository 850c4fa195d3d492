package identity

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Middleware attaches the signed-in user to the request context. Requests without an
// Authorization header pass through anonymously; a bad or revoked token is rejected.
func (s *Sessions) Middleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if header == "" {
			next(ctx)
			return
		}
		token, ok := bearerToken(header)
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid Authorization header format")
			return
		}
		sess, err := s.Verify(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid session", err)
			return
		}
		next(huma.WithValue(ctx, sessionContextKey, sess))
	}
}
