package config

import (
	"time"

	"github.com/zeromicro/go-zero/rest"

	"github.com/lightgame/panel/internal/telemetry"
)

type Config struct {
	rest.RestConf

	GameAPI struct {
		BaseURL string        `json:",default=http://localhost:8080"`
		Timeout time.Duration `json:",default=10s"`
	} `json:",optional"`

	Session struct {
		CookieName  string        `json:",default=panel_ws"`
		IdleTimeout time.Duration `json:",default=2h"`
		// empty keeps tokens in process memory
		RedisURL  string        `json:",optional"`
		KeyPrefix string        `json:",default=panel:token:"`
		TokenTTL  time.Duration `json:",default=24h"`
		Secure    bool          `json:",optional"`
	} `json:",optional"`

	Navigation struct {
		// empty uses the built-in menu
		File  string `json:",optional"`
		Watch bool   `json:",optional"`
	} `json:",optional"`

	Audit struct {
		File string `json:",optional"`
	} `json:",optional"`

	Observability telemetry.Config `json:",optional"`
}
