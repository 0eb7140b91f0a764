package gamedatagorm

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lightgame/panel/internal/gamedata"
)

// RoomRecord is the stored form of a room; players are kept as a JSON array.
type RoomRecord struct {
	ID         int    `gorm:"primaryKey;autoIncrement:false"`
	Name       string `gorm:"size:60;not null"`
	MaxPlayers int
	Players    datatypes.JSON `gorm:"type:json"`
}

func (RoomRecord) TableName() string { return "rooms" }

func (r *RoomRecord) PlayerList() []string {
	arr := []string{}
	if len(r.Players) == 0 {
		return arr
	}
	_ = json.Unmarshal(r.Players, &arr)
	return arr
}

func (r *RoomRecord) SetPlayerList(players []string) {
	if players == nil {
		players = []string{}
	}
	b, _ := json.Marshal(players)
	r.Players = b
}

func (r *RoomRecord) Room() gamedata.Room {
	return gamedata.Room{ID: r.ID, Name: r.Name, MaxPlayers: r.MaxPlayers, Players: r.PlayerList()}
}

// AutoMigrate creates the game data tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&gamedata.Faction{}, &gamedata.Area{}, &gamedata.Item{}, &RoomRecord{})
}
