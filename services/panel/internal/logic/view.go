package logic

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/shell"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

const dashboardPath = "/panel"

// View is the outcome of one panel request: a page to render or a redirect.
type View struct {
	Status   int
	Template string
	Data     shell.PageData
	Redirect string
}

func redirect(to string) *View {
	return &View{Status: http.StatusSeeOther, Redirect: to}
}

// localPath keeps redirects on this host.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

func pageData(svcCtx *svc.ServiceContext, ws *shell.Workspace, title, path string, crumbs []shell.Crumb, content any) shell.PageData {
	var ident *apiclient.Identity
	if id, ok := ws.Session.Current(); ok {
		ident = &id
	}
	return shell.PageData{
		Title:     title,
		Path:      path,
		Nav:       svcCtx.Nav.Get().View(path, ws.Session.Permits),
		Identity:  ident,
		Crumbs:    crumbs,
		Notes:     ws.Notes.Active(),
		Workspace: ws.ID,
		Content:   content,
	}
}

func crumbsOf(rt shell.Route) []shell.Crumb {
	if rt.Path == dashboardPath {
		return []shell.Crumb{{Title: rt.Title}}
	}
	return []shell.Crumb{{Title: "Dashboard", URL: dashboardPath}, {Title: rt.Title}}
}

func fault(svcCtx *svc.ServiceContext, ws *shell.Workspace, status int, template, title, path, msg string) *View {
	return &View{
		Status:   status,
		Template: template,
		Data: pageData(svcCtx, ws, title, path, []shell.Crumb{{Title: title}},
			shell.FaultView{Code: strconv.Itoa(status), Message: msg}),
	}
}

// NotFound is the 404 page.
func NotFound(svcCtx *svc.ServiceContext, ws *shell.Workspace, path string) *View {
	return fault(svcCtx, ws, http.StatusNotFound, "error", "Not found", path, "The page you are looking for does not exist.")
}

// describe prefers the game API's own message over the error chain.
func describe(err error) string {
	if err == nil {
		return ""
	}
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}
