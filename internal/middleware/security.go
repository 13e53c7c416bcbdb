package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/diewo77/invoicer/internal/keys"
	"github.com/diewo77/invoicer/internal/logger"
)

// SecurityHeaders adds standard security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		// Templates carry inline styles.
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// CSRFOptions configures CSRF.
type CSRFOptions struct {
	Secret string
	// Secure marks the token cookie Secure and enforces HTTPS Referer checks.
	Secure         bool
	TrustedOrigins []string
	Logger         *logger.Logger
}

// CSRF rejects unsafe requests without a valid token. Forms embed the token
// through csrf.TemplateField.
func CSRF(opts CSRFOptions) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		keys.Derive(opts.Secret, keys.CSRF),
		csrf.Secure(opts.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(opts.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Logger != nil {
				ctx := r.Context()
				if reason := csrf.FailureReason(r); reason != nil {
					ctx = opts.Logger.WithField(ctx, "reason", reason.Error())
				}
				opts.Logger.Warn(ctx, "csrf.rejected")
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if opts.Secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
