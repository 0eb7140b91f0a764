package logic

import (
	"context"
	"errors"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/lightgame/panel/internal/schema"
	usersgorm "github.com/lightgame/panel/internal/repo/gorm/users"
	"github.com/lightgame/panel/services/gameapi/internal/svc"
	"github.com/lightgame/panel/services/gameapi/internal/types"
)

var loginSchema = schema.MustNew(
	schema.Field{Name: "name", Label: "Username", Kind: schema.KindText, Required: true, MinLength: 1},
	schema.Field{Name: "password", Label: "Password", Kind: schema.KindText, Required: true, MinLength: 1},
)

type AuthLoginLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAuthLoginLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AuthLoginLogic {
	return &AuthLoginLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AuthLoginLogic) AuthLogin(req *types.AuthLoginRequest) (*types.AuthLoginResponse, error) {
	name := strings.TrimSpace(req.Name)
	doc := map[string]any{}
	if name != "" {
		doc["name"] = name
	}
	if req.Password != "" {
		doc["password"] = req.Password
	}
	if errs := loginSchema.Validate(doc); errs != nil {
		return nil, fieldError(ErrInvalidRequest, "invalid request", errs)
	}

	u, err := l.svcCtx.Users.Verify(l.ctx, name, req.Password)
	switch {
	case errors.Is(err, usersgorm.ErrUserNotFound):
		return nil, fieldError(ErrUnauthorized, "login failed", map[string]string{"name": "User not found"})
	case errors.Is(err, usersgorm.ErrInvalidCredentials):
		return nil, fieldError(ErrUnauthorized, "login failed", map[string]string{"password": "Invalid password"})
	case errors.Is(err, usersgorm.ErrUserDisabled):
		return nil, fieldError(ErrForbidden, "account disabled", map[string]string{"name": "Account disabled"})
	case err != nil:
		return nil, err
	}

	tok, err := l.svcCtx.Tokens.Sign(u.ID, u.Name, u.Access, l.svcCtx.Config.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	l.Infof("login: user=%s access=%s", u.Name, u.Access)
	return &types.AuthLoginResponse{Token: tok}, nil
}
