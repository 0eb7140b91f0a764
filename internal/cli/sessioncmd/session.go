// Package sessioncmd implements the login, logout and whoami commands: the
// panel's session context driven from a terminal, with the token kept in a file.
package sessioncmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/session"
	"github.com/lightgame/panel/internal/shell"
)

// Env carries what the commands need; tests swap the pieces.
type Env struct {
	V     *viper.Viper
	Store func(path string) session.TokenStore
}

func (e Env) tokenStore() session.TokenStore {
	p := e.V.GetString("token_file")
	if p == "" {
		p = session.DefaultTokenPath()
	}
	if e.Store != nil {
		return e.Store(p)
	}
	return session.FileStore{Path: p}
}

func (e Env) identityClient() (*apiclient.IdentityClient, error) {
	c, err := apiclient.New(e.V.GetString("api"))
	if err != nil {
		return nil, fmt.Errorf("--api: %w", err)
	}
	return apiclient.NewIdentityClient(c), nil
}

func timeout(e Env) time.Duration {
	if d := e.V.GetDuration("timeout"); d > 0 {
		return d
	}
	return 10 * time.Second
}

// New returns login, logout and whoami.
func New(e Env) []*cobra.Command {
	return []*cobra.Command{loginCmd(e), logoutCmd(e), whoamiCmd(e)}
}

func loginCmd(e Env) *cobra.Command {
	var name, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the game API and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = p
			}
			ic, err := e.identityClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout(e))
			defer cancel()

			f := form.New[apiclient.Credentials](shell.LoginSchema)
			sess := session.New(e.tokenStore(), ic)
			err = f.Submit(ctx, url.Values{"name": {name}, "password": {password}}, func(ctx context.Context, cred apiclient.Credentials) error {
				tok, err := ic.Login(ctx, cred)
				if err != nil {
					return err
				}
				return sess.Login(ctx, tok)
			})
			if errors.Is(err, form.ErrInvalid) {
				return fieldError(f.Errors())
			}
			if err != nil {
				return err
			}
			id, _ := sess.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", id.Name, id.Access)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "u", "", "user name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func fieldError(errs map[string]string) error {
	parts := make([]string, 0, len(errs))
	for _, k := range []string{"name", "password"} {
		if m, ok := errs[k]; ok {
			parts = append(parts, k+": "+m)
			delete(errs, k)
		}
	}
	for k, m := range errs {
		parts = append(parts, k+": "+m)
	}
	return errors.New(strings.Join(parts, "; "))
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func logoutCmd(e Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.tokenStore().Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func whoamiCmd(e Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Resolve the stored token and print the identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ic, err := e.identityClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout(e))
			defer cancel()
			sess := session.New(e.tokenStore(), ic)
			if err := sess.Init(ctx); err != nil {
				if errors.Is(err, session.ErrUnreachable) {
					return fmt.Errorf("game API unreachable: %w", err)
				}
				return fmt.Errorf("not logged in: %w", err)
			}
			id, ok := sess.Current()
			if !ok {
				return errors.New("not logged in")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, access %s)\n", id.Name, id.ID, id.Access)
			return nil
		},
	}
}
