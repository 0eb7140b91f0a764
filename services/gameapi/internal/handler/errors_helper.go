package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/lightgame/panel/services/gameapi/internal/logic"
	"github.com/lightgame/panel/services/gameapi/internal/types"
)

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := logic.StatusOf(err)
	body := types.ErrorResponse{Msg: err.Error(), Status: "error"}
	var fe *logic.FieldError
	if errors.As(err, &fe) {
		body.Errors = fe.Fields
	}
	if status == http.StatusInternalServerError {
		logx.WithContext(ctx).Errorf("request failed: %v", err)
		body.Msg = "internal error"
	}
	httpx.WriteJsonCtx(ctx, w, status, body)
}
