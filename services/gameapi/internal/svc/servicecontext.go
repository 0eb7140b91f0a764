package svc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/zeromicro/go-zero/core/logx"
	"gorm.io/gorm"

	"github.com/lightgame/panel/internal/auth/token"
	"github.com/lightgame/panel/internal/auth/users"
	"github.com/lightgame/panel/internal/db"
	"github.com/lightgame/panel/internal/gamedata"
	gamedatagorm "github.com/lightgame/panel/internal/repo/gorm/gamedata"
	usersgorm "github.com/lightgame/panel/internal/repo/gorm/users"
	"github.com/lightgame/panel/services/gameapi/internal/config"
)

type ServiceContext struct {
	Config   config.Config
	DB       *gorm.DB
	Users    *usersgorm.Repo
	Tokens   *token.Manager
	Factions *gamedatagorm.Table[gamedata.Faction]
	Areas    *gamedatagorm.Table[gamedata.Area]
	Items    *gamedatagorm.Table[gamedata.Item]
	Rooms    *gamedatagorm.Rooms
}

func NewServiceContext(c config.Config) *ServiceContext {
	gdb, err := db.Open(c.Database.DataSource, c.Log.Level == "error" || c.Log.Level == "severe")
	logx.Must(err)
	sc, err := NewServiceContextWithDB(c, gdb)
	logx.Must(err)
	return sc
}

// NewServiceContextWithDB migrates gdb and applies the configured seeds.
func NewServiceContextWithDB(c config.Config, gdb *gorm.DB) (*ServiceContext, error) {
	if err := usersgorm.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	if err := gamedatagorm.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate game data: %w", err)
	}
	sc := &ServiceContext{
		Config:   c,
		DB:       gdb,
		Users:    usersgorm.New(gdb),
		Tokens:   token.NewManager(c.Auth.Secret),
		Factions: gamedatagorm.NewTable[gamedata.Faction](gdb),
		Areas:    gamedatagorm.NewTable[gamedata.Area](gdb),
		Items:    gamedatagorm.NewTable[gamedata.Item](gdb),
		Rooms:    gamedatagorm.NewRooms(gdb),
	}
	ctx := context.Background()
	if p := c.Seed.Users; p != "" {
		seeds, err := users.Load(p)
		if err != nil {
			return nil, err
		}
		n, err := sc.Users.Seed(ctx, seeds)
		if err != nil {
			return nil, fmt.Errorf("seed users: %w", err)
		}
		logx.Infof("seeded %d user(s) from %s", n, p)
	}
	if p := c.Seed.Data; p != "" {
		if err := sc.seedData(ctx, p); err != nil {
			return nil, fmt.Errorf("seed data: %w", err)
		}
	}
	return sc, nil
}

// DataSeed is the fixture file format: one array per collection.
type DataSeed struct {
	Factions []gamedata.Faction `json:"factions"`
	Areas    []gamedata.Area    `json:"areas"`
	Items    []gamedata.Item    `json:"items"`
	Rooms    []gamedata.Room    `json:"rooms"`
}

// seedData inserts fixture records whose ids are still free.
func (sc *ServiceContext) seedData(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var ds DataSeed
	if err := json.Unmarshal(b, &ds); err != nil {
		return err
	}
	n := 0
	for _, f := range ds.Factions {
		n += skipDuplicate(sc.Factions.Create(ctx, f))
	}
	for _, a := range ds.Areas {
		n += skipDuplicate(sc.Areas.Create(ctx, a))
	}
	for _, it := range ds.Items {
		n += skipDuplicate(sc.Items.Create(ctx, it))
	}
	for _, r := range ds.Rooms {
		if err := sc.Rooms.Put(ctx, r); err != nil {
			return err
		}
	}
	logx.Infof("seeded %d record(s) and %d room(s) from %s", n, len(ds.Rooms), path)
	return nil
}

func skipDuplicate(err error) int {
	if err != nil {
		if !errors.Is(err, gamedatagorm.ErrDuplicate) {
			logx.Errorf("seed record: %v", err)
		}
		return 0
	}
	return 1
}
