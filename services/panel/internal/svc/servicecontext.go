package svc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/audit/chain"
	"github.com/lightgame/panel/internal/cli/common"
	"github.com/lightgame/panel/internal/entity"
	"github.com/lightgame/panel/internal/gamedata"
	"github.com/lightgame/panel/internal/session"
	"github.com/lightgame/panel/internal/shell"
	"github.com/lightgame/panel/internal/telemetry"
	"github.com/lightgame/panel/services/panel/internal/config"
)

type ServiceContext struct {
	Config     config.Config
	Logger     *slog.Logger
	Workspaces *shell.Workspaces
	Router     *shell.Router
	Nav        *shell.NavStore
	Renderer   *shell.Renderer
	Auth       shell.Authenticator
	Telemetry  *telemetry.Provider

	http    *http.Client
	audit   *chain.Writer
	redis   *redis.Client
	cancel  context.CancelFunc
	closers []func(context.Context) error
}

func NewServiceContext(c config.Config) *ServiceContext {
	logger := common.NewLogger(os.Stderr, c.Log.Level, c.Log.Encoding)
	hc := &http.Client{Timeout: c.GameAPI.Timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)}
	sc, err := New(context.Background(), c, hc, logger)
	logx.Must(err)
	return sc
}

// New wires the panel against the game API at c.GameAPI.BaseURL using hc for
// every call. Background work (navigation watch, workspace sweep) stops on Close.
func New(ctx context.Context, c config.Config, hc *http.Client, logger *slog.Logger) (*ServiceContext, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	sc := &ServiceContext{Config: c, Logger: logger, http: hc, cancel: cancel}
	if err := sc.init(ctx); err != nil {
		_ = sc.Close(context.Background())
		return nil, err
	}
	return sc, nil
}

func (sc *ServiceContext) init(ctx context.Context) error {
	c := sc.Config
	base, err := apiclient.New(c.GameAPI.BaseURL, apiclient.WithHTTPClient(sc.http))
	if err != nil {
		return err
	}
	identity := apiclient.NewIdentityClient(base)
	sc.Auth = identity

	tp, err := telemetry.NewProvider(ctx, c.Observability, sc.Logger)
	if err != nil {
		return err
	}
	sc.Telemetry = tp
	sc.closers = append(sc.closers, tp.Shutdown)

	if p := c.Audit.File; p != "" {
		w, err := chain.NewWriter(p)
		if err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		sc.audit = w
		sc.closers = append(sc.closers, func(context.Context) error { return w.Close() })
	}

	stores, err := sc.tokenStores()
	if err != nil {
		return err
	}
	idle := c.Session.IdleTimeout
	sc.Workspaces = shell.NewWorkspaces(stores, identity, nil, idle, sc.Logger)
	if idle > 0 {
		go sc.sweep(ctx, idle)
	}

	nav, err := shell.LoadNavigation(c.Navigation.File)
	if err != nil {
		return err
	}
	sc.Nav = shell.NewNavStore(nav)
	if c.Navigation.Watch && c.Navigation.File != "" {
		r, err := shell.WatchNavigation(ctx, c.Navigation.File, sc.Nav, sc.Logger)
		if err != nil {
			return fmt.Errorf("watch navigation: %w", err)
		}
		sc.closers = append(sc.closers, func(context.Context) error { return r.Stop() })
	}

	if sc.Renderer, err = shell.NewRenderer(); err != nil {
		return err
	}
	sc.Router, err = shell.NewRouter(
		shell.DashboardRoute("/panel", func() *shell.Router { return sc.Router }),
		shell.EntityRoute("/panel/factions", "Factions", access.Moderator, managerOf(sc, gamedata.FactionConfig(), "/api/panel/factions")),
		shell.EntityRoute("/panel/areas", "Areas", access.Moderator, managerOf(sc, gamedata.AreaConfig(), "/api/panel/areas")),
		shell.EntityRoute("/panel/items", "Items", access.Moderator, managerOf(sc, gamedata.ItemConfig(), "/api/panel/items")),
		shell.EntityRoute("/panel/admin", "Rooms", access.Admin, managerOf(sc, gamedata.RoomConfig(), "/api/admin/rooms")),
	)
	return err
}

func (sc *ServiceContext) tokenStores() (shell.StoreFactory, error) {
	s := sc.Config.Session
	if s.RedisURL == "" {
		return func(string) session.TokenStore { return session.NewMemoryStore("") }, nil
	}
	opt, err := redis.ParseURL(s.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("session redis: %w", err)
	}
	sc.redis = redis.NewClient(opt)
	sc.closers = append(sc.closers, func(context.Context) error { return sc.redis.Close() })
	prefix := s.KeyPrefix
	if prefix == "" {
		prefix = "panel:token:"
	}
	return func(id string) session.TokenStore {
		return session.NewRedisStore(sc.redis, prefix, id, s.TokenTTL)
	}, nil
}

// managerOf builds the per-workspace manager of one collection. Every call it
// makes carries the workspace's token and is reported to the audit log and
// the API metrics.
func managerOf[T entity.Record](sc *ServiceContext, cfg entity.Config[T], path string) func(ws *shell.Workspace) (*entity.Manager[T], error) {
	return func(ws *shell.Workspace) (*entity.Manager[T], error) {
		cli, err := apiclient.New(sc.Config.GameAPI.BaseURL,
			apiclient.WithHTTPClient(sc.http),
			apiclient.WithTokenSource(ws.Session.Token))
		if err != nil {
			return nil, err
		}
		obs := entity.Observers{sc.Telemetry.Metrics}
		if sc.audit != nil {
			obs = append(obs, sc.audit.Observer(actorOf(ws)))
		}
		return entity.NewManager[T](cfg, apiclient.NewResource[T](cli, path),
			entity.WithNotifier(ws.Notes),
			entity.WithObserver(obs),
			entity.WithLogger(sc.Logger.With("workspace", ws.ID, "entity", cfg.Name)))
	}
}

func actorOf(ws *shell.Workspace) func() string {
	return func() string {
		if id, ok := ws.Session.Current(); ok {
			return id.Name
		}
		return "anonymous"
	}
}

func (sc *ServiceContext) sweep(ctx context.Context, idle time.Duration) {
	every := idle / 4
	if every < time.Minute {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sc.Workspaces.Sweep(); n > 0 {
				sc.Logger.Info("idle workspaces dropped", "count", n)
			}
		}
	}
}

// Close stops background work and releases the audit file, Redis and telemetry.
func (sc *ServiceContext) Close(ctx context.Context) error {
	sc.cancel()
	var errs []error
	for i := len(sc.closers) - 1; i >= 0; i-- {
		errs = append(errs, sc.closers[i](ctx))
	}
	return errors.Join(errs...)
}
