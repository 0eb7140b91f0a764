package logic

import (
	"net/http"

	"github.com/lightgame/panel/internal/shell"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

func Home(svcCtx *svc.ServiceContext, ws *shell.Workspace) *View {
	ws.Lock()
	defer ws.Unlock()
	ws.Unmount()
	return &View{
		Status:   http.StatusOK,
		Template: "home",
		Data:     pageData(svcCtx, ws, "Light Panel", "/", nil, nil),
	}
}

// Dismiss removes one notification and returns to back.
func Dismiss(ws *shell.Workspace, id, back string) *View {
	ws.Notes.Dismiss(id)
	return redirect(localPath(back))
}
