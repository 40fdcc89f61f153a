// Command graphseed imports a walk network file into MySQL and toggles edge
// closures.
package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atharv3903/campusnav/internal/config"
	"github.com/atharv3903/campusnav/internal/db"
	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/model"
	"github.com/atharv3903/campusnav/internal/provider"
)

func main() {
	var (
		dsn     = flag.String("dsn", os.Getenv("DB_DSN"), "MySQL DSN")
		file    = flag.String("graph", "", "graph file to import (.json or .fmi)")
		schema  = flag.Bool("schema", false, "create tables if missing")
		replace = flag.Bool("replace", false, "empty the tables before import")
		clip    = flag.Bool("clip", false, "keep only the campus region")
		closeID = flag.String("close", "", "comma-separated edge ids to close")
		openID  = flag.String("open", "", "comma-separated edge ids to reopen")
	)
	flag.Parse()

	log, _ := zap.NewProduction()
	defer log.Sync()

	if *dsn == "" {
		log.Fatal("missing -dsn")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, *dsn)
	if err != nil {
		log.Fatal("open db", zap.Error(err))
	}
	defer conn.Close()
	store := db.Store{DB: conn}

	if *schema {
		if err := store.CreateSchema(ctx); err != nil {
			log.Fatal("create schema", zap.Error(err))
		}
	}

	if *file != "" {
		nodes, edges, err := provider.ReadFile(*file)
		if err != nil {
			log.Fatal("read graph", zap.Error(err))
		}
		region := model.Region{}
		if *clip {
			region = config.CampusRegion
		}
		nodes, edges = provider.Clip(nodes, edges, region)

		// reject what the server would refuse to load
		if _, err := graph.Build(nodes, edges); err != nil {
			log.Fatal("invalid graph", zap.Error(err))
		}
		if err := store.SaveGraph(ctx, nodes, edges, *replace); err != nil {
			log.Fatal("save graph", zap.Error(err))
		}
		log.Info("imported", zap.String("file", *file), zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)))
	}

	for closed, list := range map[bool]string{true: *closeID, false: *openID} {
		ids, err := parseIDs(list)
		if err != nil {
			log.Fatal("bad edge ids", zap.Error(err))
		}
		for _, id := range ids {
			if err := store.UpdateEdgeClosed(ctx, id, closed); err != nil {
				log.Fatal("update edge", zap.Int64("edge", id), zap.Error(err))
			}
			log.Info("edge updated", zap.Int64("edge", id), zap.Bool("closed", closed))
		}
	}
}

func parseIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	var ids []int64
	for _, f := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
