package auth

import (
	"context"
	"net/http"
)

// UserOrRoleHeader carries the user or role a request is executed as.
const UserOrRoleHeader = "X-User-Or-Role"

type contextKey struct {
	name string
}

var authKey = &contextKey{"userOrRole"}

func WithContextUserOrRole(ctx context.Context, userOrRole string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, authKey, userOrRole)
}

func ContextUserOrRole(ctx context.Context) string {
	if ctx != nil {
		if val, ok := ctx.Value(authKey).(string); ok {
			return val
		}
	}
	return ""
}

// NewUserOrRoleHandler rejects requests without the UserOrRoleHeader and
// stores its value in the request context for the database layer.
func NewUserOrRoleHandler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userOrRole := r.Header.Get(UserOrRoleHeader)
		if userOrRole == "" {
			w.Header().Set("Content-Type", "application/json; charset=UTF-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"description":"missing header ` + UserOrRoleHeader + `","code":401}`))
			return
		}
		handler.ServeHTTP(w, r.WithContext(WithContextUserOrRole(r.Context(), userOrRole)))
	})
}
