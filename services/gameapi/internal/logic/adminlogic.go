package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/lightgame/panel/internal/gamedata"
	"github.com/lightgame/panel/services/gameapi/internal/svc"
	"github.com/lightgame/panel/services/gameapi/internal/types"
)

type AdminLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAdminLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AdminLogic {
	return &AdminLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AdminLogic) Rooms() ([]gamedata.Room, error) {
	return l.svcCtx.Rooms.List(l.ctx)
}

// Status reports "Ok" once the database answers a ping.
func (l *AdminLogic) Status() (*types.StatusResponse, error) {
	sqlDB, err := l.svcCtx.DB.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(l.ctx); err != nil {
		return nil, err
	}
	return &types.StatusResponse{Status: "Ok"}, nil
}
