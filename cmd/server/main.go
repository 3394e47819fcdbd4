package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"unigate-backend/lib/configutil"
	"unigate-backend/lib/osutil"
	"unigate-backend/lib/scrapers/unisis"
	"unigate-backend/lib/timezone"
	"unigate-backend/services/httpapi"
	"unigate-backend/services/menu"
	"unigate-backend/services/session"
	"unigate-backend/services/trips"
	"unigate-backend/services/vault"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"
)

func fatalerr(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

// the portal publishes the new week's menu on Monday mornings
const defaultRefreshSchedule = "0 6 * * 1"

func main() {
	config, err := configutil.ReadConfig[ServerConfig]("config.json5")
	if err != nil {
		fatalerr("failed to read config", err)
	}
	if config.Listen == "" {
		config.Listen = "127.0.0.1:8210"
	}
	if config.Menu.RefreshSchedule == "" {
		config.Menu.RefreshSchedule = defaultRefreshSchedule
	}

	ctx := osutil.SignalContext()

	client, err := unisis.NewClient(unisis.ClientOptions{
		BaseURL: config.Portal.BaseURL,
		Timeout: time.Second * time.Duration(config.Portal.TimeoutSeconds),
	})
	if err != nil {
		fatalerr("failed to create portal client", err)
	}

	slog.Info("connecting to redis...", "addr", config.Redis.Addr)
	store := vault.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	}))

	sessions := session.NewService(store, client, session.Options{
		SigningKey: []byte(config.Session.SigningKey),
		AccessTTL:  time.Minute * time.Duration(config.Session.AccessTTLMinutes),
		RefreshTTL: time.Hour * 24 * time.Duration(config.Session.RefreshTTLDays),
	})

	var history *menu.SnapshotStore
	if config.Menu.SqlitePath != "" {
		slog.Info("opening snapshot database...", "path", config.Menu.SqlitePath)
		db, err := sql.Open("sqlite", config.Menu.SqlitePath)
		if err != nil {
			fatalerr("failed to open snapshot database", err)
		}
		history, err = menu.NewSnapshotStore(db)
		if err != nil {
			fatalerr("failed to init snapshot database", err)
		}
	}

	menus := menu.NewService(ctx, client, history, menu.Options{
		RetryDelay:   time.Second * time.Duration(config.Menu.RetryDelaySeconds),
		RetryCeiling: config.Menu.RetryCeiling,
	})

	scheduler := cron.New(cron.WithLocation(timezone.Location))
	_, err = scheduler.AddFunc(config.Menu.RefreshSchedule, func() {
		_, err := menus.Refresh(context.Background())
		if err != nil {
			slog.Warn("scheduled menu refresh failed", "err", err)
		}
	})
	if err != nil {
		fatalerr("failed to schedule menu refresh", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr: config.Listen,
		Handler: httpapi.NewRouter(httpapi.RouterDeps{
			Sessions: sessions,
			Menus:    menus,
			Trips:    trips.NewService(sessions, client),
		}),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("listening...", "addr", config.Listen)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fatalerr("failed to listen", err)
	}
}
