package httpmw

import (
	"net/http"
	"time"

	"github.com/keithlinneman/linnemanlabs-api/internal/identity"
	"github.com/keithlinneman/linnemanlabs-api/internal/log"
)

// Credentials decodes the bearer token, if any, and attaches the
// resulting identity to the context and request state. Decoding is
// best effort: a missing header is silent, a malformed token costs one
// warning, an expired token is noted and still attached. No request is
// ever rejected here.
func Credentials(headerName string, observe func(identity.Status)) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = "Authorization"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			res := identity.ParseAuthorization(r.Header.Get(headerName))
			if observe != nil {
				observe(res.Status)
			}

			L := log.FromContext(ctx)

			switch res.Status {
			case identity.StatusMalformed:
				// never echo the token itself, only the decode reason
				L.Warn(ctx, "credential decode failed", "reason", res.Reason)

			case identity.StatusOK:
				StateFromContext(ctx).SetIdentity(res.Identity)
				ctx = identity.NewContext(ctx, res.Identity)

				if res.Identity.Expired(time.Now()) {
					L.Info(ctx, "credential expired",
						"subject", res.Identity.Subject,
						"expires_at", *res.Identity.ExpiresAt,
					)
				} else {
					L.Debug(ctx, "credential decoded", "subject", res.Identity.Subject)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
