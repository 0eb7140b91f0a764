package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/lightgame/panel/services/panel/internal/logic"
	"github.com/lightgame/panel/services/panel/internal/middleware"
	"github.com/lightgame/panel/services/panel/internal/svc"
	"github.com/lightgame/panel/services/panel/internal/types"
)

func HomeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		render(w, r, svcCtx, logic.Home(svcCtx, ws))
	}
}

func DismissHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DismissRequest
		if err := httpx.Parse(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		render(w, r, svcCtx, logic.Dismiss(ws, req.ID, req.Back))
	}
}

func HealthzHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, types.HealthResponse{Status: "ok", Workspaces: svcCtx.Workspaces.Len()})
	}
}

// NotFoundHandler renders the 404 page inside the visitor's workspace.
func NotFoundHandler(svcCtx *svc.ServiceContext) http.Handler {
	return middleware.NewWorkspaceMiddleware(svcCtx).Handle(func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		render(w, r, svcCtx, logic.NotFound(svcCtx, ws, r.URL.Path))
	})
}
