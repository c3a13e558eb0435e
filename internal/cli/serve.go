package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PranaviDevireddy/cs212project/internal/app"
	"github.com/PranaviDevireddy/cs212project/internal/catalog"
	"github.com/PranaviDevireddy/cs212project/internal/config"
	"github.com/PranaviDevireddy/cs212project/internal/domain"
	"github.com/PranaviDevireddy/cs212project/internal/infra/memory"
	pgloader "github.com/PranaviDevireddy/cs212project/internal/infra/postgres"
	redisinfra "github.com/PranaviDevireddy/cs212project/internal/infra/redis"
	"github.com/PranaviDevireddy/cs212project/internal/logging"
	"github.com/PranaviDevireddy/cs212project/internal/report"
	"github.com/PranaviDevireddy/cs212project/internal/transport/tcp"
	wstransport "github.com/PranaviDevireddy/cs212project/internal/transport/ws"
)

const (
	defaultAddr      = ":12345"
	defaultCatalogID = "networks-quiz"
	defaultMinRoll   = 2303101
	defaultMaxRoll   = 2303140
)

// NewServeCmd builds the CLI subcommand to run the quiz server.
func NewServeCmd(configPath, addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the quiz server until interrupted, then write reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *addr)
		},
	}
}

// catalogRepository resolves catalog content through whichever cache backs it.
type catalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

func runServer(ctx context.Context, configPath, addrFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		logrus.WithField("path", configPath).Info("config not found, using defaults")
	}
	logging.Setup(cfg.Log.Level)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalAddr := addrFlag
	if finalAddr == "" {
		finalAddr = cfg.Server.Addr
	}
	if finalAddr == "" {
		finalAddr = defaultAddr
	}

	rng := domain.RollRange{Min: cfg.Auth.MinRoll, Max: cfg.Auth.MaxRoll}
	if rng.Min == 0 && rng.Max == 0 {
		rng = domain.RollRange{Min: defaultMinRoll, Max: defaultMaxRoll}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	catalogID := cfg.Catalog.ID
	if catalogID == "" {
		catalogID = defaultCatalogID
	}
	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(map[string]domain.Catalog{
		defaultCatalogID: catalog.Default(),
	})
	if cfg.Catalog.Path != "" {
		loader = memory.NewFileCatalogLoader(cfg.Catalog.Path)
	}
	if pool != nil {
		loader = pgloader.NewCatalogLoader(pool)
	}

	catalogTTL := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogs catalogRepository
	if redisClient != nil {
		catalogs = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}
	cat, err := catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		return err
	}

	var registry app.Registry
	if redisClient != nil {
		registry = redisinfra.NewRegistry(redisClient, rng)
	} else {
		registry = memory.NewRegistry(rng)
	}

	svc := app.NewQuizService(registry, cat)

	server := tcp.NewServer(svc, finalAddr, cfg.Server.MaxSessions)
	if err := server.Listen(); err != nil {
		return err
	}
	go func() {
		if err := server.Serve(ctx); err != nil {
			logrus.WithError(err).Error("serve loop failed")
		}
	}()

	var monitorServer *http.Server
	if cfg.Monitor.Addr != "" {
		monitor := wstransport.NewMonitor(svc)
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
		mux.HandleFunc("/ws", monitor.ServeWS)
		monitorServer = &http.Server{Addr: cfg.Monitor.Addr, Handler: mux}
		go func() {
			logrus.WithField("addr", cfg.Monitor.Addr).Info("monitor listening")
			if err := monitorServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logrus.WithError(err).Error("monitor server failed")
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logrus.Info("shutting down, saving results...")
	case <-ctx.Done():
		logrus.Info("context canceled, shutting down...")
	}

	drain := config.Duration(cfg.Server.DrainTimeout, 30*time.Second)
	server.Shutdown(drain)

	if monitorServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = monitorServer.Shutdown(shutdownCtx)
		cancel()
	}

	return writeReports(svc, cat, cfg.Reports.Dir)
}

// writeReports runs the report generator exactly once, after the accept loop
// has stopped and the drain window has passed.
func writeReports(svc *app.QuizService, cat domain.Catalog, dir string) error {
	if dir == "" {
		dir = "."
	}
	reportCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := svc.Results(reportCtx)
	if err != nil {
		return err
	}
	lb, err := svc.Leaderboard(reportCtx)
	if err != nil {
		return err
	}
	if err := report.NewGenerator(dir, cat).Write(results, lb); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"dir": dir, "participants": len(results)}).Info("reports written")
	return nil
}
