package middleware

import (
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/lightgame/panel/services/panel/internal/svc"
)

const defaultCookie = "panel_ws"

// WorkspaceMiddleware binds every request to the browser's workspace, issuing
// a new workspace cookie when the request carries none or an unknown one.
type WorkspaceMiddleware struct {
	ctx *svc.ServiceContext
}

func NewWorkspaceMiddleware(ctx *svc.ServiceContext) *WorkspaceMiddleware {
	return &WorkspaceMiddleware{ctx: ctx}
}

func (m *WorkspaceMiddleware) cookieName() string {
	if n := m.ctx.Config.Session.CookieName; n != "" {
		return n
	}
	return defaultCookie
}

func (m *WorkspaceMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := m.cookieName()
		var id string
		if ck, err := r.Cookie(name); err == nil {
			id = ck.Value
		}
		ws, created := m.ctx.Workspaces.Get(r.Context(), id)
		if created {
			logx.WithContext(r.Context()).Debugf("new workspace %s", ws.ID)
		}
		if ws.ID != id {
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    ws.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.ctx.Config.Session.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next(w, r.WithContext(svc.WithWorkspace(r.Context(), ws)))
	}
}
