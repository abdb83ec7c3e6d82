package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"tandabase/shared/go/logging"
	"tandabase/shared/go/models"
)

type requesterKey struct{}

// TokenParser turns a bearer token into the requester it identifies.
type TokenParser interface {
	Parse(token string) (models.Requester, error)
}

// WithRequester stores the requester in ctx.
func WithRequester(ctx context.Context, req models.Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, req)
}

// RequesterFrom returns the requester stored in ctx. Requests without a
// token yield the zero, unauthenticated requester.
func RequesterFrom(ctx context.Context) models.Requester {
	req, _ := ctx.Value(requesterKey{}).(models.Requester)
	return req
}

// Authenticate resolves an optional bearer token. Requests without a token
// continue anonymously; a token that fails to parse is rejected with 401.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			req, err := tokens.Parse(raw)
			if err != nil {
				log.Debug().
					Str("request_id", logging.RequestID(r.Context())).
					Err(err).
					Msg("rejected bearer token")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="tandabase"`)
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
				return
			}

			ctx := WithRequester(r.Context(), req)
			ctx = logging.WithUserID(ctx, req.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
