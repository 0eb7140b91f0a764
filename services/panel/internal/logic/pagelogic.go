package logic

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/lightgame/panel/internal/session"
	"github.com/lightgame/panel/internal/shell"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

type PageLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	ws     *shell.Workspace
}

func NewPageLogic(ctx context.Context, svcCtx *svc.ServiceContext, ws *shell.Workspace) *PageLogic {
	return &PageLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
		ws:     ws,
	}
}

// Show renders the page at path, mounting it when the workspace arrives from
// another page.
func (l *PageLogic) Show(path string) *View {
	rt, ok := l.svcCtx.Router.Resolve(path)
	if !ok {
		return NotFound(l.svcCtx, l.ws, path)
	}
	l.ws.Lock()
	defer l.ws.Unlock()
	if v := l.gate(rt); v != nil {
		return v
	}
	p, err := l.ws.Mount(l.ctx, rt)
	if err != nil {
		l.Errorf("mount %s: %v", rt.Path, err)
		return fault(l.svcCtx, l.ws, http.StatusInternalServerError, "error", "Error", rt.Path, "The page could not be opened.")
	}
	return &View{
		Status:   http.StatusOK,
		Template: p.Template(),
		Data:     pageData(l.svcCtx, l.ws, rt.Title, rt.Path, crumbsOf(rt), p.View()),
	}
}

// Act applies a posted page action and redirects back to the page.
func (l *PageLogic) Act(path string, form url.Values) *View {
	rt, ok := l.svcCtx.Router.Resolve(path)
	if !ok {
		return NotFound(l.svcCtx, l.ws, path)
	}
	l.ws.Lock()
	defer l.ws.Unlock()
	if v := l.gate(rt); v != nil {
		return v
	}
	p, err := l.ws.Mount(l.ctx, rt)
	if err == nil {
		err = p.Handle(l.ctx, form.Get("action"), form)
	}
	switch {
	case err == nil:
		return redirect(rt.Path)
	case errors.Is(err, shell.ErrBadAction):
		l.Infof("rejected action on %s: %v", rt.Path, err)
		return fault(l.svcCtx, l.ws, http.StatusBadRequest, "error", "Bad request", rt.Path, "The request could not be understood.")
	default:
		l.Errorf("action on %s: %v", rt.Path, err)
		return fault(l.svcCtx, l.ws, http.StatusInternalServerError, "error", "Error", rt.Path, "The action could not be completed.")
	}
}

// gate returns the view replacing rt when the session may not see it. A
// session that lost the game API gets its identity checked again first.
func (l *PageLogic) gate(rt shell.Route) *View {
	if errors.Is(l.ws.Session.LastError(), session.ErrUnreachable) {
		if err := l.ws.Session.Init(l.ctx); err != nil {
			l.Infof("identity still unresolved: %v", err)
		}
	}
	switch shell.Guard(l.ws.Session, rt) {
	case shell.Allow:
		return nil
	case shell.Unreachable:
		l.ws.Unmount()
		return fault(l.svcCtx, l.ws, http.StatusServiceUnavailable, "unreachable", "Server unreachable", rt.Path,
			describe(l.ws.Session.LastError()))
	default:
		l.ws.Unmount()
		return fault(l.svcCtx, l.ws, http.StatusForbidden, "restricted", "Access restricted", rt.Path,
			"You do not have permission to view this page.")
	}
}
