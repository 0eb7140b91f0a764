package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/access"
)

type faction struct {
	ID   int    `json:"id"`
	Name string `json:"Name"`
}

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestResourceCRUD(t *testing.T) {
	var seen []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[{"id":1,"Name":"Alpha"},{"id":2,"Name":"Bravo"}]`)
		case http.MethodPost, http.MethodPut:
			var f faction
			require.NoError(t, json.NewDecoder(r.Body).Decode(&f))
			assert.Equal(t, "Charlie", f.Name)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			var body map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 2, body["id"])
			w.WriteHeader(http.StatusNoContent)
		}
	})
	c := newTestClient(t, h, WithTokenSource(func() string { return "tok" }))
	res := NewResource[faction](c, "api/panel/factions/")

	list, err := res.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []faction{{1, "Alpha"}, {2, "Bravo"}}, list)

	require.NoError(t, res.Create(context.Background(), faction{3, "Charlie"}))
	require.NoError(t, res.Update(context.Background(), 3, faction{3, "Charlie"}))
	require.NoError(t, res.Delete(context.Background(), 2))

	assert.Equal(t, []string{
		"GET /api/panel/factions",
		"POST /api/panel/factions",
		"PUT /api/panel/factions/3",
		"DELETE /api/panel/factions/2",
	}, seen)
}

func TestStructuredRejection(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"status":"error","msg":"invalid","errors":{"Name":"taken"}}`)
	})
	res := NewResource[faction](newTestClient(t, h), "/api/panel/factions")
	err := res.Create(context.Background(), faction{ID: 1, Name: "Alpha"})
	require.Error(t, err)

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "taken", fields["Name"])
	assert.Equal(t, "invalid", Message(err))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(err))
}

func TestUnstructuredFailure(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	res := NewResource[faction](newTestClient(t, h), "/api/panel/factions")
	_, err := res.List(context.Background())
	require.Error(t, err)
	_, ok := FieldErrors(err)
	assert.False(t, ok)
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "HTTP_500", ae.Code())
	assert.False(t, ae.Transport())
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c, err := New(url)
	require.NoError(t, err)
	_, err = NewResource[faction](c, "/x").List(context.Background())
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.True(t, ae.Transport())
	assert.Equal(t, "ERR_NETWORK", ae.Code())
}

func TestIdentityClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"user":{"id":7,"name":"mod","access":2}}`)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var cred Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cred))
		if cred.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"errors":{"password":"wrong password"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"good"}`)
	})
	ic := NewIdentityClient(newTestClient(t, mux))

	id, err := ic.Resolve(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: 7, Name: "mod", Access: access.Moderator}, id)

	_, err = ic.Resolve(context.Background(), "bad")
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))

	tok, err := ic.Login(context.Background(), Credentials{Name: "mod", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "good", tok)

	_, err = ic.Login(context.Background(), Credentials{Name: "mod", Password: "nope"})
	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "wrong password", fields["password"])
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:3000")
	assert.Error(t, err)
}

func TestOversizedResponseIsReported(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte(" "), maxResponse+1))
	})
	res := NewResource[faction](newTestClient(t, h), "/api/panel/factions")

	_, err := res.List(context.Background())
	require.ErrorIs(t, err, ErrResponseTooLarge)
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusOK, ae.Status)
	assert.Contains(t, err.Error(), "response too large")
}
