package middleware

import (
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/services/gameapi/internal/svc"
	"github.com/lightgame/panel/services/gameapi/internal/types"
)

// AuthMiddleware enforces a bearer token and a minimum access level.
type AuthMiddleware struct {
	ctx *svc.ServiceContext
}

func NewAuthMiddleware(ctx *svc.ServiceContext) *AuthMiddleware {
	return &AuthMiddleware{ctx: ctx}
}

// Handle wraps handlers so only active users at or above required get through.
// The level is read from the account, not the token, so a demotion applies at once.
func (m *AuthMiddleware) Handle(required access.Level) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := m.ctx.Authenticate(r)
			if !ok {
				writeStatus(r, w, http.StatusUnauthorized, "unauthorized")
				return
			}
			u, err := m.ctx.Users.GetUser(r.Context(), claims.Sub)
			if err != nil || !u.Active {
				writeStatus(r, w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !u.Access.Allows(required) {
				logx.WithContext(r.Context()).Infof("access denied: user=%s level=%s required=%s", u.Name, u.Access, required)
				writeStatus(r, w, http.StatusForbidden, "forbidden")
				return
			}
			claims.Name, claims.Access = u.Name, u.Access
			next(w, r.WithContext(svc.WithIdentity(r.Context(), claims)))
		}
	}
}

func writeStatus(r *http.Request, w http.ResponseWriter, code int, msg string) {
	httpx.WriteJsonCtx(r.Context(), w, code, types.ErrorResponse{Msg: msg, Status: "error"})
}
