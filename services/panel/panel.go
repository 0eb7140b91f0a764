package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"

	"github.com/lightgame/panel/services/panel/internal/config"
	"github.com/lightgame/panel/services/panel/internal/handler"
	"github.com/lightgame/panel/services/panel/internal/svc"
)

var configFile = flag.String("f", "etc/panel.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	ctx := svc.NewServiceContext(c)
	defer func() {
		if err := ctx.Close(context.Background()); err != nil {
			logx.Errorf("shutdown: %v", err)
		}
	}()

	server := rest.MustNewServer(c.RestConf, rest.WithNotFoundHandler(handler.NotFoundHandler(ctx)))
	defer server.Stop()

	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting panel at %s:%d, game API %s...\n", c.Host, c.Port, c.GameAPI.BaseURL)
	server.Start()
}
