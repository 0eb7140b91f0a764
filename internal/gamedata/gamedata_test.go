package gamedata

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/schema"
)

func TestFactionSchema(t *testing.T) {
	errs := FactionSchema.ValidateRecord(Faction{ID: 3, Name: "Ab"})
	require.Contains(t, errs, "Name")
	assert.Len(t, errs, 1)
	assert.Nil(t, FactionSchema.ValidateRecord(Faction{ID: 3, Name: "Abcd"}))
	assert.Contains(t, FactionSchema.ValidateRecord(Faction{ID: 0, Name: "Abcd"}), "id")
}

func TestItemDefaultsAreValidExceptName(t *testing.T) {
	draft, err := schema.FromMap[Item](ItemSchema.Defaults())
	require.NoError(t, err)
	assert.Equal(t, "none", draft.Type)
	assert.True(t, draft.Sell)
	assert.Equal(t, 50, draft.Range)

	draft.Name = "Blade"
	draft.Description = "A sharp blade"
	assert.Nil(t, ItemSchema.ValidateRecord(draft))

	draft.Type = "Spoon"
	assert.Contains(t, ItemSchema.ValidateRecord(draft), "Type")
}

func TestAreaNameCellShowsFlags(t *testing.T) {
	cell := areaNameCell(Area{Name: "<Battleon>", PvP: true, Dungeon: true})
	s := string(cell)
	assert.Contains(t, s, "&lt;Battleon&gt;")
	assert.Contains(t, s, `<span class="badge badge-pvp">PvP</span>`)
	assert.Contains(t, s, `badge-dungeon`)
	assert.NotContains(t, s, "Upgrade")
}

func TestAreaNameCellFallsBackToName(t *testing.T) {
	broken := template.Must(template.New("broken").Parse(`{{.Missing}}`))
	cell := badgeCell(broken, Area{ID: 4, Name: "<Battleon>", PvP: true})
	assert.Equal(t, template.HTML("&lt;Battleon&gt;"), cell)
}

func TestConfigsAreUsable(t *testing.T) {
	assert.Equal(t, "Faction", FactionConfig().Name)
	assert.Equal(t, "Name", AreaConfig().FilterColumn)
	assert.Len(t, ItemConfig().Columns, 6)
	assert.True(t, RoomConfig().ReadOnly)
}
