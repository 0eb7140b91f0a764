package gamedata

import (
	"html/template"
	"log/slog"
	"strings"

	"github.com/lightgame/panel/internal/entity"
	"github.com/lightgame/panel/internal/listview"
	"github.com/lightgame/panel/internal/schema"
)

type Area struct {
	ID               int     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name             string  `json:"Name" gorm:"size:60;not null"`
	File             string  `json:"File" gorm:"size:128"`
	MaxPlayers       int     `json:"MaxPlayers"`
	ReqLevel         int     `json:"ReqLevel"`
	ReqParty         bool    `json:"ReqParty"`
	Upgrade          bool    `json:"Upgrade"`
	Staff            bool    `json:"Staff"`
	PvP              bool    `json:"PvP"`
	Timeline         bool    `json:"Timeline"`
	Floor            bool    `json:"Floor"`
	Dungeon          bool    `json:"Dungeon"`
	DamageMultiplier float64 `json:"DamageMultiplier"`
	GuildLevel       int     `json:"GuildLevel"`
}

func (a Area) RecordID() int { return a.ID }

// Flags lists the badge names of the flags set on a.
func (a Area) Flags() []string {
	var out []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{a.Upgrade, "Upgrade"},
		{a.ReqParty, "Party"},
		{a.Staff, "Staff"},
		{a.PvP, "PvP"},
		{a.Timeline, "Timeline"},
		{a.Floor, "Floor"},
		{a.Dungeon, "Dungeon"},
	} {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}

var AreaSchema = schema.MustNew(
	schema.Field{Name: "id", Label: "Id", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(1), Immutable: true},
	schema.Field{Name: "Name", Label: "Name", Kind: schema.KindText, Required: true, MinLength: 1, MaxLength: 60},
	schema.Field{Name: "File", Label: "File", Kind: schema.KindText, MaxLength: 128, Placeholder: "maps/battleon.swf"},
	schema.Field{Name: "MaxPlayers", Label: "Max Players", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(1), Maximum: schema.Bound(1000), Default: 10},
	schema.Field{Name: "ReqLevel", Label: "Required Level", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(0), Default: 0},
	schema.Field{Name: "ReqParty", Label: "Requires Party", Kind: schema.KindBoolean},
	schema.Field{Name: "Upgrade", Label: "Upgrade", Kind: schema.KindBoolean},
	schema.Field{Name: "Staff", Label: "Staff", Kind: schema.KindBoolean},
	schema.Field{Name: "PvP", Label: "PvP", Kind: schema.KindBoolean},
	schema.Field{Name: "Timeline", Label: "Timeline", Kind: schema.KindBoolean},
	schema.Field{Name: "Floor", Label: "Floor", Kind: schema.KindBoolean},
	schema.Field{Name: "Dungeon", Label: "Dungeon", Kind: schema.KindBoolean},
	schema.Field{Name: "DamageMultiplier", Label: "Damage Multiplier", Kind: schema.KindNumber, Required: true, Minimum: schema.Bound(0), Maximum: schema.Bound(100), Default: 1},
	schema.Field{Name: "GuildLevel", Label: "Guild Level", Kind: schema.KindNumber, Integer: true, Required: true, Minimum: schema.Bound(0), Default: 0},
)

var badgeTmpl = template.Must(template.New("badges").Funcs(template.FuncMap{"lower": strings.ToLower}).Parse(
	`<span class="name">{{.Name}}</span>{{range .Flags}} <span class="badge badge-{{lower .}}">{{.}}</span>{{end}}`))

func areaNameCell(a Area) template.HTML { return badgeCell(badgeTmpl, a) }

// badgeCell falls back to the escaped plain name when t fails.
func badgeCell(t *template.Template, a Area) template.HTML {
	var b strings.Builder
	err := t.Execute(&b, struct {
		Name  string
		Flags []string
	}{a.Name, a.Flags()})
	if err != nil {
		slog.Warn("area badges", "id", a.ID, "error", err)
		return template.HTML(template.HTMLEscapeString(a.Name))
	}
	return template.HTML(b.String())
}

func AreaConfig() entity.Config[Area] {
	return entity.Config[Area]{
		Name:   "Area",
		Schema: AreaSchema,
		Columns: []listview.Column[Area]{
			{ID: "id", Header: "ID", Value: func(a Area) any { return a.ID }, Sortable: true},
			{ID: "Name", Header: "Name", Value: func(a Area) any { return a.Name }, Cell: areaNameCell, Sortable: true},
			{ID: "MaxPlayers", Header: "Max Players", Value: func(a Area) any { return a.MaxPlayers }, Sortable: true, Hideable: true},
			{ID: "ReqLevel", Header: "Required Level", Value: func(a Area) any { return a.ReqLevel }, Sortable: true, Hideable: true},
		},
		FilterColumn: "Name",
	}
}
