package handler

import (
	"net/http"

	"github.com/lightgame/panel/services/panel/internal/logic"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

func LoginPageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		render(w, r, svcCtx, logic.NewLoginLogic(r.Context(), svcCtx, ws).Form())
	}
}

func LoginHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		render(w, r, svcCtx, logic.NewLoginLogic(r.Context(), svcCtx, ws).Submit(r.PostForm))
	}
}

func LogoutHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		render(w, r, svcCtx, logic.NewLoginLogic(r.Context(), svcCtx, ws).Logout())
	}
}
