package logic

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/shell"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

const loginPath = "/login"

type LoginLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	ws     *shell.Workspace
}

func NewLoginLogic(ctx context.Context, svcCtx *svc.ServiceContext, ws *shell.Workspace) *LoginLogic {
	return &LoginLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
		ws:     ws,
	}
}

func (l *LoginLogic) Form() *View {
	l.ws.Lock()
	defer l.ws.Unlock()
	l.ws.Unmount()
	_, signedIn := l.ws.Session.Current()
	f := l.ws.LoginForm()
	return &View{
		Status:   http.StatusOK,
		Template: "login",
		Data: pageData(l.svcCtx, l.ws, "Login", loginPath, []shell.Crumb{{Title: "Login"}}, shell.LoginView{
			Controls:   f.Controls(),
			General:    f.GeneralErrors(),
			Submitting: f.Submitting(),
			Already:    signedIn,
		}),
	}
}

// Submit signs the workspace in. Validation and credential errors stay on
// the login form; the browser is always redirected.
func (l *LoginLogic) Submit(values url.Values) *View {
	l.ws.Lock()
	defer l.ws.Unlock()
	err := l.ws.SignIn(l.ctx, l.svcCtx.Auth, values)
	switch {
	case err == nil:
		id, _ := l.ws.Session.Current()
		l.Infof("workspace %s signed in as %s", l.ws.ID, id.Name)
		l.ws.Notes.Successf("Logged in", "Welcome, "+id.Name+".")
		return redirect(dashboardPath)
	case errors.Is(err, form.ErrInvalid):
		return redirect(loginPath)
	default:
		l.Infof("workspace %s login failed: %v", l.ws.ID, err)
		l.ws.Notes.Failure("Login failed", describe(err))
		return redirect(loginPath)
	}
}

// Logout forgets the workspace's token without contacting the game API.
func (l *LoginLogic) Logout() *View {
	l.ws.Lock()
	defer l.ws.Unlock()
	if err := l.ws.SignOut(l.ctx); err != nil {
		l.Errorf("workspace %s logout: %v", l.ws.ID, err)
	}
	l.ws.Notes.Successf("Logged out", "")
	return redirect(loginPath)
}
