package sessioncmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/session"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Name, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		if body.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"bad login","status":"error","errors":{"password":"Invalid password"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-1"}`))
	})
	mux.HandleFunc("/api/user/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":3,"name":"mod","access":2}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, e Env, stdin string, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "panel", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(New(e)...)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv := fakeAPI(t)
	v := viper.New()
	v.Set("api", srv.URL)
	store := session.NewMemoryStore("")
	e := Env{V: v, Store: func(string) session.TokenStore { return store }}

	_, err := run(t, e, "", "whoami")
	assert.EqualError(t, err, "not logged in")

	_, err = run(t, e, "", "login", "-u", "mo", "-p", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name:")

	_, err = run(t, e, "", "login", "-u", "mod", "-p", "wrong12")
	assert.EqualError(t, err, "password: Invalid password")

	out, err := run(t, e, "secret1\n", "login", "-u", "mod")
	require.NoError(t, err)
	assert.Equal(t, "logged in as mod (moderator)\n", out)
	tok, _ := store.Load(context.Background())
	assert.Equal(t, "tok-1", tok)

	out, err = run(t, e, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "mod (id 3, access moderator)\n", out)

	_, err = run(t, e, "", "logout")
	require.NoError(t, err)
	tok, _ = store.Load(context.Background())
	assert.Empty(t, tok)
}

func TestWhoamiUnreachable(t *testing.T) {
	srv := fakeAPI(t)
	srv.Close()
	v := viper.New()
	v.Set("api", srv.URL)
	e := Env{V: v, Store: func(string) session.TokenStore { return session.NewMemoryStore("tok-1") }}
	_, err := run(t, e, "", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}
