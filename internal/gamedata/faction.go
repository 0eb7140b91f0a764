// Package gamedata defines the records the panel manages and, for each, the
// field schema, table columns and entity configuration.
package gamedata

import (
	"github.com/lightgame/panel/internal/entity"
	"github.com/lightgame/panel/internal/listview"
	"github.com/lightgame/panel/internal/schema"
)

type Faction struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"Name" gorm:"size:20;not null"`
}

func (f Faction) RecordID() int { return f.ID }

var FactionSchema = schema.MustNew(
	schema.Field{Name: "id", Label: "Id", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(1), Immutable: true, Placeholder: "Id"},
	schema.Field{Name: "Name", Label: "Name", Kind: schema.KindText, Required: true, MinLength: 4, MaxLength: 20, Placeholder: "Name"},
)

func FactionConfig() entity.Config[Faction] {
	return entity.Config[Faction]{
		Name:   "Faction",
		Schema: FactionSchema,
		Columns: []listview.Column[Faction]{
			{ID: "id", Header: "ID", Value: func(f Faction) any { return f.ID }, Sortable: true},
			{ID: "Name", Header: "Name", Value: func(f Faction) any { return f.Name }, Sortable: true},
		},
		FilterColumn: "Name",
	}
}
