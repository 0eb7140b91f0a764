package shell

import (
	"context"
	"net/url"

	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/schema"
)

var LoginSchema = schema.MustNew(
	schema.Field{Name: "name", Label: "Username", Kind: schema.KindText, Required: true, MinLength: 3, MaxLength: 20, Placeholder: "Username"},
	schema.Field{Name: "password", Label: "Password", Kind: schema.KindText, Required: true, MinLength: 6, MaxLength: 64, Secret: true},
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, cred apiclient.Credentials) (string, error)
}

// LoginForm returns the workspace's login form, creating it on first use.
func (ws *Workspace) LoginForm() *form.Form[apiclient.Credentials] {
	if ws.login == nil {
		ws.login = form.New[apiclient.Credentials](LoginSchema)
	}
	return ws.login
}

// SignIn validates the login form, trades the credentials for a token and
// logs the session in with it. Pages of the previous user are dropped. A
// form.ErrInvalid error means the messages are on the login form.
func (ws *Workspace) SignIn(ctx context.Context, auth Authenticator, values url.Values) error {
	err := ws.LoginForm().Submit(ctx, values, func(ctx context.Context, cred apiclient.Credentials) error {
		token, err := auth.Login(ctx, cred)
		if err != nil {
			return err
		}
		return ws.Session.Login(ctx, token)
	})
	if err != nil {
		return err
	}
	ws.Reset()
	ws.login = nil
	return nil
}

// SignOut forgets the session and every page state.
func (ws *Workspace) SignOut(ctx context.Context) error {
	ws.Reset()
	ws.login = nil
	return ws.Session.Logout(ctx)
}
