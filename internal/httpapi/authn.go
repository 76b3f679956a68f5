package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"sociohub.org/internal/auth"
	"sociohub.org/internal/community"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth authenticates bearer tokens and attaches the account to the
// request context. Public endpoints pass through untouched. The subject must
// still resolve to a live account; a token for a deleted user is rejected.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublic(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, err.Error())
			return
		}

		claims, err := auth.ParseAndValidate(token)
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "invalid token")
			return
		}

		u, err := a.svc.GetUser(r.Context(), community.UserID(claims.Subject))
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "invalid token")
			return
		}

		ctx := auth.ContextWithUser(r.Context(), string(u.ID))
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var publicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/v1/info",
	"/",
}

// isPublic reports whether the endpoint requires no authentication. Reads of
// the community catalog are public; the me/ scoped listings are not.
func isPublic(method, path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	if method == http.MethodPost && (path == "/v1/auth/signup" || path == "/v1/auth/signin") {
		return true
	}
	if method == http.MethodGet {
		if path == "/v1/community" || path == "/v1/role" {
			return true
		}
		if strings.HasPrefix(path, "/v1/community/") && !strings.HasPrefix(path, "/v1/community/me/") {
			return true
		}
	}
	return false
}

// actorID returns the authenticated user for handlers behind withAuth.
func actorID(r *http.Request) (community.UserID, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return "", false
	}
	return community.UserID(id), true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
