package gamedata

import (
	"github.com/lightgame/panel/internal/entity"
	"github.com/lightgame/panel/internal/listview"
	"github.com/lightgame/panel/internal/schema"
)

type Item struct {
	ID          int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string `json:"Name" gorm:"size:20;not null"`
	Description string `json:"Description" gorm:"size:255"`
	Type        string `json:"Type" gorm:"size:20"`
	Element     string `json:"Element" gorm:"size:20"`
	File        string `json:"File" gorm:"size:60"`
	Level       int    `json:"Level"`
	DPS         int    `json:"DPS"`
	Range       int    `json:"Range"`
	Rarity      int    `json:"Rarity"`
	Quantity    int    `json:"Quantity"`
	Stack       int    `json:"Stack"`
	Cost        int    `json:"Cost"`
	Silver      bool   `json:"Silver"`
	Gold        bool   `json:"Gold"`
	Sell        bool   `json:"Sell"`
	Temporary   bool   `json:"Temporary"`
	Upgrade     bool   `json:"Upgrade"`
	Staff       bool   `json:"Staff"`
}

func (i Item) RecordID() int { return i.ID }

var ItemTypes = []schema.Option{
	{Value: "none", Label: "None"},
	{Value: "Sword", Label: "Sword"},
	{Value: "Axe", Label: "Axe"},
	{Value: "Dagger", Label: "Dagger"},
	{Value: "Staff", Label: "Staff"},
	{Value: "Helm", Label: "Helm"},
	{Value: "Cape", Label: "Cape"},
	{Value: "Armor", Label: "Armor"},
	{Value: "Pet", Label: "Pet"},
	{Value: "Item", Label: "Item"},
}

var ItemSchema = schema.MustNew(
	schema.Field{Name: "id", Label: "Id", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(1), Immutable: true, Default: 1},
	schema.Field{Name: "Name", Label: "Name", Kind: schema.KindText, Required: true, MinLength: 4, MaxLength: 20},
	schema.Field{Name: "Description", Label: "Description", Kind: schema.KindText, Required: true, MinLength: 1, MaxLength: 255},
	schema.Field{Name: "Type", Label: "Type", Kind: schema.KindEnum, Required: true, Options: ItemTypes, Default: "none"},
	schema.Field{Name: "Element", Label: "Element", Kind: schema.KindText, Required: true, MinLength: 1, MaxLength: 20, Default: "None"},
	schema.Field{Name: "File", Label: "File", Kind: schema.KindText, MaxLength: 60},
	schema.Field{Name: "Level", Label: "Level", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(1), Default: 1},
	schema.Field{Name: "DPS", Label: "DPS", Kind: schema.KindNumber, Integer: true, Required: true, Maximum: schema.Bound(1000), Default: 10},
	schema.Field{Name: "Range", Label: "Range", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(0), Default: 50},
	schema.Field{Name: "Rarity", Label: "Rarity", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(1), Default: 1},
	schema.Field{Name: "Quantity", Label: "Quantity", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(0), Maximum: schema.Bound(999), Default: 1},
	schema.Field{Name: "Stack", Label: "Stack", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(0), Maximum: schema.Bound(9999), Default: 1},
	schema.Field{Name: "Cost", Label: "Cost", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(0), Default: 1},
	schema.Field{Name: "Silver", Label: "Silver", Kind: schema.KindBoolean},
	schema.Field{Name: "Gold", Label: "Gold", Kind: schema.KindBoolean},
	schema.Field{Name: "Sell", Label: "Sellable", Kind: schema.KindBoolean, Default: true},
	schema.Field{Name: "Temporary", Label: "Temporary", Kind: schema.KindBoolean},
	schema.Field{Name: "Upgrade", Label: "Upgrade", Kind: schema.KindBoolean},
	schema.Field{Name: "Staff", Label: "Staff only", Kind: schema.KindBoolean},
)

func ItemConfig() entity.Config[Item] {
	return entity.Config[Item]{
		Name:   "Item",
		Schema: ItemSchema,
		Columns: []listview.Column[Item]{
			{ID: "id", Header: "ID", Value: func(i Item) any { return i.ID }, Sortable: true},
			{ID: "Name", Header: "Name", Value: func(i Item) any { return i.Name }, Sortable: true},
			{ID: "Type", Header: "Type", Value: func(i Item) any { return i.Type }, Sortable: true, Hideable: true},
			{ID: "Level", Header: "Level", Value: func(i Item) any { return i.Level }, Sortable: true, Hideable: true},
			{ID: "Rarity", Header: "Rarity", Value: func(i Item) any { return i.Rarity }, Sortable: true, Hideable: true},
			{ID: "Cost", Header: "Cost", Value: func(i Item) any { return i.Cost }, Sortable: true, Hideable: true},
		},
		FilterColumn: "Name",
	}
}
