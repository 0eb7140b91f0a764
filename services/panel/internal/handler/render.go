package handler

import (
	"bytes"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/lightgame/panel/internal/shell"
	"github.com/lightgame/panel/services/panel/internal/logic"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

func render(w http.ResponseWriter, r *http.Request, svcCtx *svc.ServiceContext, v *logic.View) {
	if v.Redirect != "" {
		http.Redirect(w, r, v.Redirect, v.Status)
		return
	}
	var buf bytes.Buffer
	if err := svcCtx.Renderer.Render(&buf, v.Template, v.Data); err != nil {
		logx.WithContext(r.Context()).Errorf("render %s: %v", v.Template, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(v.Status)
	_, _ = buf.WriteTo(w)
}

// workspace fetches the request's workspace; routes without the workspace
// middleware never call it.
func workspace(w http.ResponseWriter, r *http.Request) (*shell.Workspace, bool) {
	ws, ok := svc.WorkspaceFrom(r.Context())
	if !ok {
		logx.WithContext(r.Context()).Error("request without workspace")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	return ws, ok
}
