package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atharv3903/campusnav/internal/api"
	"github.com/atharv3903/campusnav/internal/broadcast"
	"github.com/atharv3903/campusnav/internal/config"
	"github.com/atharv3903/campusnav/internal/db"
	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/locations"
	"github.com/atharv3903/campusnav/internal/model"
	"github.com/atharv3903/campusnav/internal/provider"
	"github.com/atharv3903/campusnav/internal/router"
)

func main() {
	cfg, err := config.FromFlagsServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := newLogger(cfg.Dev)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := loadGraph(ctx, cfg, log)
	if err != nil {
		log.Fatal("load graph", zap.Error(err))
	}

	tbl, err := locations.New(cfg.Locations)
	if err != nil {
		log.Fatal("locations", zap.Error(err))
	}
	warnOutside(log, tbl, cfg.Region)

	opts := broadcast.Options{
		Workers:    cfg.FanoutWorkers,
		SendBuffer: cfg.SendBuffer,
		Log:        log.Named("broadcast"),
	}
	if cfg.RedisAddr != "" {
		pool := broadcast.NewRedisPool(cfg.RedisAddr)
		defer pool.Close()
		opts.Relay = &broadcast.RedisRelay{Pool: pool, Channel: cfg.RedisChannel, Log: opts.Log}
		log.Info("relaying locations through redis", zap.String("addr", cfg.RedisAddr), zap.String("channel", cfg.RedisChannel))
	}
	hub, err := broadcast.NewHub(opts)
	if err != nil {
		log.Fatal("broadcast hub", zap.Error(err))
	}
	go hub.Run(ctx)

	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.New(router.New(g, tbl), hub, log.Named("http"))

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("campusnav listening", zap.String("addr", cfg.Addr), zap.Int("locations", tbl.Len()))
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	// hijacked WebSocket connections are not covered by Shutdown
	hub.Close()
}

func newLogger(dev bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if dev {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	return log
}

// loadGraph reads the walk network once. The database connection is only
// needed for the load.
func loadGraph(ctx context.Context, cfg config.ServerConfig, log *zap.Logger) (*graph.Graph, error) {
	src, err := cfg.Source()
	if err != nil {
		return nil, err
	}

	var p provider.Provider
	switch src {
	case config.SourceFile:
		p = provider.File{Path: cfg.GraphFile, Log: log}
	case config.SourceMySQL:
		conn, err := db.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		p = provider.MySQL{Store: db.Store{DB: conn}, Log: log}
	}

	g, err := p.Load(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	if g.NodeCount() == 0 {
		log.Warn("graph is empty; path queries will fail", zap.String("source", src))
	}
	return g, nil
}

func warnOutside(log *zap.Logger, tbl *locations.Table, r model.Region) {
	for _, l := range tbl.All() {
		if !r.Contains(l.Coord) {
			log.Warn("location outside region", zap.String("name", l.Name))
		}
	}
}
