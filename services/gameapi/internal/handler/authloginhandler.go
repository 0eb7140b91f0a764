package handler

import (
	"fmt"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/lightgame/panel/services/gameapi/internal/logic"
	"github.com/lightgame/panel/services/gameapi/internal/svc"
	"github.com/lightgame/panel/services/gameapi/internal/types"
)

func AuthLoginHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AuthLoginRequest
		if err := httpx.Parse(r, &req); err != nil {
			writeError(r.Context(), w, fmt.Errorf("%w: %v", logic.ErrInvalidRequest, err))
			return
		}

		l := logic.NewAuthLoginLogic(r.Context(), svcCtx)
		resp, err := l.AuthLogin(&req)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
