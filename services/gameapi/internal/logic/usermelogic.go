package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/lightgame/panel/services/gameapi/internal/svc"
	"github.com/lightgame/panel/services/gameapi/internal/types"
)

type UserMeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewUserMeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UserMeLogic {
	return &UserMeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UserMeLogic) UserMe() (*types.UserMeResponse, error) {
	c, ok := svc.IdentityFrom(l.ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return &types.UserMeResponse{User: types.UserInfo{ID: c.Sub, Name: c.Name, Access: c.Access}}, nil
}
