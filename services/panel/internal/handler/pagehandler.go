package handler

import (
	"net/http"

	"github.com/lightgame/panel/services/panel/internal/logic"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

func PageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		l := logic.NewPageLogic(r.Context(), svcCtx, ws)
		render(w, r, svcCtx, l.Show(r.URL.Path))
	}
}

func PageActionHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := workspace(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		l := logic.NewPageLogic(r.Context(), svcCtx, ws)
		render(w, r, svcCtx, l.Act(r.URL.Path, r.PostForm))
	}
}
