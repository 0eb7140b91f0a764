package config

import (
	"time"

	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf

	Auth struct {
		Secret   string
		TokenTTL time.Duration `json:",default=24h"`
	}

	Database struct {
		// empty: data/gameapi.db; postgres://... or sqlite:///path or :memory:
		DataSource string `json:",optional"`
	} `json:",optional"`

	Seed struct {
		Users string `json:",optional"`
		Data  string `json:",optional"`
	} `json:",optional"`
}
