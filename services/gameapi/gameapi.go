package main

import (
	"flag"
	"fmt"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"github.com/lightgame/panel/services/gameapi/internal/config"
	"github.com/lightgame/panel/services/gameapi/internal/handler"
	"github.com/lightgame/panel/services/gameapi/internal/svc"
)

var configFile = flag.String("f", "etc/gameapi.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting game API at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
