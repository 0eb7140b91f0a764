package form

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/clock"
	"github.com/lightgame/panel/internal/schema"
)

type faction struct {
	ID   int    `json:"id"`
	Name string `json:"Name"`
}

var factionSchema = schema.MustNew(
	schema.Field{Name: "id", Label: "ID", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(1), Immutable: true},
	schema.Field{Name: "Name", Kind: schema.KindText, Required: true, MinLength: 4, MaxLength: 20},
)

func TestSubmitGatesOnValidation(t *testing.T) {
	f := New[faction](factionSchema)
	called := false
	err := f.Submit(context.Background(), url.Values{"id": {"3"}, "Name": {"Ab"}}, func(context.Context, faction) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrInvalid)
	assert.False(t, called)
	assert.NotEmpty(t, f.Errors()["Name"])
	assert.False(t, f.Submitting())

	for _, c := range f.Controls() {
		if c.Name == "Name" {
			assert.Equal(t, "Ab", c.Value)
			assert.NotEmpty(t, c.Error)
		}
	}
}

func TestSubmitRejectsOutOfRangeInteger(t *testing.T) {
	f := New[faction](factionSchema)
	called := false
	err := f.Submit(context.Background(), url.Values{"id": {"1e20"}, "Name": {"Abcd"}}, func(context.Context, faction) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrInvalid)
	assert.False(t, called)
	assert.Equal(t, "ID must be a whole number within range", f.Errors()["id"])
	assert.False(t, f.Submitting())
}

func TestSubmitBindFailureIsFieldError(t *testing.T) {
	type small struct {
		Level int8 `json:"Level"`
	}
	f := New[small](schema.MustNew(schema.Field{Name: "Level", Kind: schema.KindNumber, Integer: true}))
	err := f.Submit(context.Background(), url.Values{"Level": {"300"}}, func(context.Context, small) error {
		t.Fatal("handler must not run")
		return nil
	})
	require.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "Level must be a whole number within range", f.Errors()["Level"])
}

func TestSubmitPassesTypedDraft(t *testing.T) {
	f := New[faction](factionSchema)
	var got faction
	err := f.Submit(context.Background(), url.Values{"id": {"3"}, "Name": {"Abcd"}}, func(_ context.Context, d faction) error {
		got = d
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, faction{ID: 3, Name: "Abcd"}, got)
	assert.Nil(t, f.Errors())
}

func TestServerFieldErrorsLandOnFields(t *testing.T) {
	f := New[faction](factionSchema)
	err := f.Submit(context.Background(), url.Values{"id": {"3"}, "Name": {"Abcd"}}, func(context.Context, faction) error {
		return &apiclient.Error{Status: http.StatusConflict, Fields: map[string]string{"id": "already exists"}}
	})
	require.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "already exists", f.Errors()["id"])
}

func TestUnstructuredFailureIsReturned(t *testing.T) {
	f := New[faction](factionSchema)
	boom := errors.New("boom")
	err := f.Submit(context.Background(), url.Values{"id": {"3"}, "Name": {"Abcd"}}, func(context.Context, faction) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalid)
	assert.Nil(t, f.Errors())
}

func TestSubmittingStaysVisibleForMinimumDuration(t *testing.T) {
	fc := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	f := New[faction](factionSchema, WithClock(fc))

	var during bool
	err := f.Submit(context.Background(), url.Values{"id": {"3"}, "Name": {"Abcd"}}, func(context.Context, faction) error {
		during = f.Submitting()
		fc.Advance(50 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, during)
	assert.True(t, f.Submitting())

	fc.Advance(449 * time.Millisecond)
	assert.True(t, f.Submitting())
	fc.Advance(time.Millisecond)
	assert.False(t, f.Submitting())
}

func TestSecondSubmitWhileInFlight(t *testing.T) {
	f := New[faction](factionSchema)
	var inner error
	err := f.Submit(context.Background(), url.Values{"id": {"3"}, "Name": {"Abcd"}}, func(ctx context.Context, d faction) error {
		inner = f.Submit(ctx, url.Values{"id": {"4"}, "Name": {"Efgh"}}, func(context.Context, faction) error { return nil })
		return nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrInFlight)
}

func TestEditKeepsImmutableID(t *testing.T) {
	f := New[faction](factionSchema)
	require.NoError(t, f.Load(faction{ID: 7, Name: "Alliance"}))

	for _, c := range f.Controls() {
		switch c.Name {
		case "id":
			assert.True(t, c.ReadOnly)
			assert.Equal(t, "7", c.Value)
		case "Name":
			assert.Equal(t, "Alliance", c.Value)
		}
	}

	var got faction
	err := f.Submit(context.Background(), url.Values{"id": {"99"}, "Name": {"Alliance2"}}, func(_ context.Context, d faction) error {
		got = d
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, faction{ID: 7, Name: "Alliance2"}, got)
}

func TestResetDefaults(t *testing.T) {
	s := schema.MustNew(
		schema.Field{Name: "Name", Kind: schema.KindText, Default: "new"},
		schema.Field{Name: "Stackable", Kind: schema.KindBoolean, Default: true},
	)
	type item struct {
		Name      string `json:"Name"`
		Stackable bool   `json:"Stackable"`
	}
	f := New[item](s)
	assert.Equal(t, item{Name: "new", Stackable: true}, f.Draft())
	ctrls := f.Controls()
	require.Len(t, ctrls, 2)
	assert.Equal(t, "text", ctrls[0].Type)
	assert.Equal(t, "checkbox", ctrls[1].Type)
	assert.True(t, ctrls[1].Checked)
}

func TestGeneralErrors(t *testing.T) {
	f := New[faction](factionSchema)
	f.SetErrors(map[string]string{"Name": "bad", "owner": "unknown owner"})
	assert.Equal(t, []string{"owner: unknown owner"}, f.GeneralErrors())
}
