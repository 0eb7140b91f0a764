package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/internal/gamedata"
	"github.com/lightgame/panel/services/gameapi/internal/middleware"
	"github.com/lightgame/panel/services/gameapi/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(Routes(serverCtx))
}

// Routes lists every endpoint with its access middleware applied.
func Routes(serverCtx *svc.ServiceContext) []rest.Route {
	auth := middleware.NewAuthMiddleware(serverCtx)

	var routes []rest.Route
	routes = append(routes,
		rest.Route{Method: http.MethodPost, Path: "/api/auth/login", Handler: AuthLoginHandler(serverCtx)},
		rest.Route{Method: http.MethodGet, Path: "/healthz", Handler: HealthzHandler(serverCtx)},
	)

	routes = append(routes, rest.WithMiddlewares(
		[]rest.Middleware{auth.Handle(access.Player)},
		rest.Route{Method: http.MethodGet, Path: "/api/user/me", Handler: UserMeHandler(serverCtx)},
	)...)

	var panel []rest.Route
	panel = append(panel, Resource[gamedata.Faction]{Name: "faction", Path: "/api/panel/factions", Store: serverCtx.Factions, Schema: gamedata.FactionSchema}.Routes()...)
	panel = append(panel, Resource[gamedata.Area]{Name: "area", Path: "/api/panel/areas", Store: serverCtx.Areas, Schema: gamedata.AreaSchema}.Routes()...)
	panel = append(panel, Resource[gamedata.Item]{Name: "item", Path: "/api/panel/items", Store: serverCtx.Items, Schema: gamedata.ItemSchema}.Routes()...)
	routes = append(routes, rest.WithMiddlewares([]rest.Middleware{auth.Handle(access.Moderator)}, panel...)...)

	routes = append(routes, rest.WithMiddlewares(
		[]rest.Middleware{auth.Handle(access.Admin)},
		rest.Route{Method: http.MethodGet, Path: "/api/admin/rooms", Handler: AdminRoomsHandler(serverCtx)},
		rest.Route{Method: http.MethodGet, Path: "/api/admin/status", Handler: AdminStatusHandler(serverCtx)},
	)...)
	return routes
}
