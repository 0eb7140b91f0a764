package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"github.com/lightgame/panel/services/panel/internal/middleware"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(Routes(serverCtx))
}

// Routes lists the panel's HTML surface. Every page runs inside the
// browser's workspace.
func Routes(serverCtx *svc.ServiceContext) []rest.Route {
	ws := middleware.NewWorkspaceMiddleware(serverCtx)

	routes := []rest.Route{
		{Method: http.MethodGet, Path: "/healthz", Handler: HealthzHandler(serverCtx)},
	}
	routes = append(routes, rest.WithMiddlewares(
		[]rest.Middleware{ws.Handle},
		rest.Route{Method: http.MethodGet, Path: "/", Handler: HomeHandler(serverCtx)},
		rest.Route{Method: http.MethodGet, Path: "/login", Handler: LoginPageHandler(serverCtx)},
		rest.Route{Method: http.MethodPost, Path: "/login", Handler: LoginHandler(serverCtx)},
		rest.Route{Method: http.MethodPost, Path: "/logout", Handler: LogoutHandler(serverCtx)},
		rest.Route{Method: http.MethodPost, Path: "/notifications/dismiss", Handler: DismissHandler(serverCtx)},
		rest.Route{Method: http.MethodGet, Path: "/panel", Handler: PageHandler(serverCtx)},
		rest.Route{Method: http.MethodPost, Path: "/panel", Handler: PageActionHandler(serverCtx)},
		rest.Route{Method: http.MethodGet, Path: "/panel/:entity", Handler: PageHandler(serverCtx)},
		rest.Route{Method: http.MethodPost, Path: "/panel/:entity", Handler: PageActionHandler(serverCtx)},
	)...)
	return routes
}
