package request

import (
	"context"
	"net/http"
	"openrate/core"
	"openrate/handler/render"
	"openrate/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/twitchtv/twirp"
)

// CallerHeader identity set by the upstream gateway
const CallerHeader = "X-Caller-ID"

type key int

const (
	callerKey key = iota
)

// WithCaller context with caller id
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom get caller id from context
func CallerFrom(ctx context.Context) (string, bool) {
	caller, ok := ctx.Value(callerKey).(string)
	return caller, ok && caller != ""
}

// Caller read the caller header into the context
func Caller(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		caller := r.Header.Get(CallerHeader)
		if caller == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !id.Valid(caller) {
			render.Error(w, twirp.NewError(twirp.Unauthenticated, "invalid caller id"))
			return
		}

		ctx := WithCaller(r.Context(), caller)
		log := logger.FromContext(ctx).WithField("caller", caller)
		ctx = logger.WithContext(ctx, log)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// RequireCaller reject requests without a caller
func RequireCaller(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CallerFrom(r.Context()); !ok {
			render.Error(w, twirp.NewError(twirp.Unauthenticated, "missing "+CallerHeader))
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// RequireAdmin reject callers not listed as admin
func RequireAdmin(cfg *core.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFrom(r.Context())
			if !ok || !cfg.IsAdmin(caller) {
				render.Error(w, twirp.NewError(twirp.PermissionDenied, "admin only"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
