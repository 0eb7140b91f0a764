package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/lightgame/panel/services/gameapi/internal/logic"
	"github.com/lightgame/panel/services/gameapi/internal/svc"
)

func UserMeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewUserMeLogic(r.Context(), svcCtx)
		resp, err := l.UserMe()
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
