package gamedata

import (
	"github.com/lightgame/panel/internal/entity"
	"github.com/lightgame/panel/internal/listview"
	"github.com/lightgame/panel/internal/schema"
)

// Room is a live game room, listed but never edited from the panel.
type Room struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	MaxPlayers int      `json:"maxPlayers"`
	Players    []string `json:"players"`
}

func (r Room) RecordID() int { return r.ID }

var RoomSchema = schema.MustNew(
	schema.Field{Name: "id", Label: "ID", Kind: schema.KindNumber, Integer: true, Required: true},
	schema.Field{Name: "name", Label: "Name", Kind: schema.KindText, Required: true},
	schema.Field{Name: "maxPlayers", Label: "Max Players", Kind: schema.KindNumber, Integer: true},
)

func RoomConfig() entity.Config[Room] {
	return entity.Config[Room]{
		Name:   "Room",
		Schema: RoomSchema,
		Columns: []listview.Column[Room]{
			{ID: "id", Header: "ID", Value: func(r Room) any { return r.ID }, Sortable: true},
			{ID: "name", Header: "Name", Value: func(r Room) any { return r.Name }, Sortable: true},
			{ID: "players", Header: "Players", Value: func(r Room) any { return len(r.Players) }, Sortable: true},
			{ID: "maxPlayers", Header: "Max Players", Value: func(r Room) any { return r.MaxPlayers }, Sortable: true, Hideable: true},
		},
		FilterColumn: "name",
		ReadOnly:     true,
	}
}
