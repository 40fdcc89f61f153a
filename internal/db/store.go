package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/atharv3903/campusnav/internal/model"
)

// Open connects to MySQL and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(conn)

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Addr, err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		node_id BIGINT PRIMARY KEY,
		lat DOUBLE NOT NULL,
		lon DOUBLE NOT NULL,
		INDEX idx_nodes_lat_lon (lat, lon)
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		edge_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		src_node BIGINT NOT NULL,
		dst_node BIGINT NOT NULL,
		distance_m DOUBLE NOT NULL,
		closed BOOLEAN NOT NULL DEFAULT FALSE,
		INDEX idx_edges_src (src_node),
		INDEX idx_edges_dst (dst_node)
	)`,
}

type Store struct {
	DB *sql.DB
}

func (s Store) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

const (
	nodesAll = `
        SELECT node_id, lat, lon
        FROM nodes
    `
	nodesInRegion = `
        SELECT node_id, lat, lon
        FROM nodes
        WHERE lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?
    `
	edgesAll = `
        SELECT src_node, dst_node, distance_m, closed
        FROM edges
    `
	edgesInRegion = `
        SELECT e.src_node, e.dst_node, e.distance_m, e.closed
        FROM edges e
        JOIN nodes a ON a.node_id = e.src_node
        JOIN nodes b ON b.node_id = e.dst_node
        WHERE a.lat BETWEEN ? AND ? AND a.lon BETWEEN ? AND ?
          AND b.lat BETWEEN ? AND ? AND b.lon BETWEEN ? AND ?
    `
)

func regionArgs(r model.Region) []any {
	return []any{r.South, r.North, r.West, r.East}
}

// Nodes returns the nodes inside r.
func (s Store) Nodes(ctx context.Context, r model.Region) ([]model.Node, error) {
	query, args := nodesAll, []any(nil)
	if !r.IsZero() {
		query, args = nodesInRegion, regionArgs(r)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make([]model.Node, 0, 1024)

	for rows.Next() {
		var n model.Node
		if err := rows.Scan(&n.ID, &n.Lat, &n.Lon); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}

	return nodes, rows.Err()
}

// Edges returns the open edges with both endpoints inside r.
func (s Store) Edges(ctx context.Context, r model.Region) ([]model.Edge, error) {
	query, args := edgesAll, []any(nil)
	if !r.IsZero() {
		query, args = edgesInRegion, append(regionArgs(r), regionArgs(r)...)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]model.Edge, 0, 1024)

	for rows.Next() {
		var e model.Edge
		var closed bool

		if err := rows.Scan(&e.Src, &e.Dst, &e.DistM, &closed); err != nil {
			return nil, err
		}
		if closed {
			continue
		}

		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// SaveGraph writes nodes and edges in one transaction. With replace set, the
// existing tables are emptied first.
func (s Store) SaveGraph(ctx context.Context, nodes []model.Node, edges []model.Edge, replace bool) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if replace {
		if _, err = tx.ExecContext(ctx, `DELETE FROM edges`); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
			return err
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx, `
        INSERT INTO nodes (node_id, lat, lon) VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE lat = VALUES(lat), lon = VALUES(lon)
    `)
	if err != nil {
		return err
	}
	defer nodeStmt.Close()

	for _, n := range nodes {
		if _, err = nodeStmt.ExecContext(ctx, n.ID, n.Lat, n.Lon); err != nil {
			return fmt.Errorf("insert node %d: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
        INSERT INTO edges (src_node, dst_node, distance_m) VALUES (?, ?, ?)
    `)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	for _, e := range edges {
		if _, err = edgeStmt.ExecContext(ctx, e.Src, e.Dst, e.DistM); err != nil {
			return fmt.Errorf("insert edge %d-%d: %w", e.Src, e.Dst, err)
		}
	}

	return tx.Commit()
}

// UpdateEdgeClosed opens or closes an edge. Closed edges are skipped on load.
func (s Store) UpdateEdgeClosed(ctx context.Context, edgeID int64, closed bool) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE edges SET closed=? WHERE edge_id=?`, closed, edgeID)
	return err
}
