package main // Entry point package

import (
	"context"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/yaremchuk/theatre-boxoffice/internal/config"
	"github.com/yaremchuk/theatre-boxoffice/internal/database"
	"github.com/yaremchuk/theatre-boxoffice/internal/hall"
	"github.com/yaremchuk/theatre-boxoffice/internal/handler"
	"github.com/yaremchuk/theatre-boxoffice/internal/middleware"
	"github.com/yaremchuk/theatre-boxoffice/internal/oplog"
	"github.com/yaremchuk/theatre-boxoffice/internal/queue"
	"github.com/yaremchuk/theatre-boxoffice/internal/repository"
	"github.com/yaremchuk/theatre-boxoffice/internal/router"
)

func main() {
	// .env is optional; a production deployment sets real env vars.
	_ = godotenv.Load()

	cfg := config.Load()

	layout, err := hall.Load(filepath.Join(cfg.DataDir, cfg.HallFile))
	if err != nil {
		log.Fatalf("load hall layout: %v", err)
	}
	catalog, err := hall.LoadCatalog(filepath.Join(cfg.DataDir, cfg.CatalogFile))
	if err != nil {
		log.Fatalf("load seance catalog: %v", err)
	}

	persist, publish := buildStore(cfg)

	opLog := oplog.New()
	box := handler.NewBoxOfficeHandler(layout, catalog, cfg.DataDir, persist, opLog, publish)
	auth := handler.NewAuthHandler(cfg)

	// Login rate limiting rides on redis when available; without redis the
	// limiter is a pass-through.
	rdb := config.NewRedisClient()
	limit := middleware.NewLoginRateLimit(config.LoadRateLimitConfig(), rdb)

	// Background consumer turning committed events into logs/boxoffice.log.
	if publish {
		go func() {
			if err := queue.StartCommittedConsumer(); err != nil {
				log.Printf("committed consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, limit)
	router.RegisterBoxOffice(e, box, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("box office listening on %s (env=%s, storage=%s, hall=%q, seances=%d)",
		addr, cfg.Env, cfg.StorageBackend, layout.Hall.Name, len(catalog))

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// buildStore selects the seance-state provider from configuration.  The
// second return reports whether commits should fan out to the message
// queue; event publishing is enabled for every backend but can be turned
// off via QUEUE_ENABLED=false.
func buildStore(cfg config.Config) (repository.SeanceStore, bool) {
	publish := config.LoadQueueEnabled()
	switch cfg.StorageBackend {
	case "file", "":
		fs, err := repository.NewFileStore(cfg.StateDir)
		if err != nil {
			log.Fatalf("init file store: %v", err)
		}
		return fs, publish
	case "redis":
		rdb := config.NewRedisClient()
		if rdb == nil {
			log.Fatal("STORAGE_BACKEND=redis but redis is unreachable")
		}
		return repository.NewRedisStore(rdb), publish
	case "mysql":
		if cfg.DBUser == "" || cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
			log.Fatal("STORAGE_BACKEND=mysql requires DB_USER, DB_HOST, DB_PORT and DB_NAME")
		}
		db, err := database.Open(cfg)
		if err != nil {
			log.Fatalf("connect to mysql: %v", err)
		}
		st, err := repository.NewMySQLStore(context.Background(), db)
		if err != nil {
			log.Fatalf("init mysql store: %v", err)
		}
		return st, publish
	default:
		log.Fatalf("unknown STORAGE_BACKEND %q (want file, redis or mysql)", cfg.StorageBackend)
		return nil, false
	}
}
