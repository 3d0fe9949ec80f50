package graph

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS graph_nodes (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	node_type   TEXT NOT NULL,
	label       TEXT NOT NULL,
	description TEXT,
	properties  JSONB,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS graph_nodes_user_idx ON graph_nodes (user_id, node_type, created_at);
CREATE TABLE IF NOT EXISTS graph_edges (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	source_id  TEXT NOT NULL REFERENCES graph_nodes (id) ON DELETE CASCADE,
	target_id  TEXT NOT NULL REFERENCES graph_nodes (id) ON DELETE CASCADE,
	edge_type  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

const nodeColumns = `id, user_id, node_type, label, description, properties, created_at`

// PostgresStore persists the graph in PostgreSQL.
type PostgresStore struct {
	conn *sql.DB
}

// OpenPostgres opens a connection pool, verifies it and creates the tables.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := conn.ExecContext(ctx, postgresSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return NewPostgresStore(conn), nil
}

// NewPostgresStore wraps an open pool; the schema must already exist.
func NewPostgresStore(conn *sql.DB) *PostgresStore {
	return &PostgresStore{conn: conn}
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

func (s *PostgresStore) CreateNode(ctx context.Context, node *Node) error {
	var properties interface{}
	if len(node.Properties) > 0 {
		data, err := json.Marshal(node.Properties)
		if err != nil {
			return fmt.Errorf("encode node properties: %w", err)
		}
		properties = string(data)
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO graph_nodes (`+nodeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		node.ID, node.UserID, node.Type, node.Label, nullString(node.Description), properties, node.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert node: %w", err)
	}
	return nil
}

func (s *PostgresStore) Node(ctx context.Context, id string) (*Node, bool, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM graph_nodes WHERE id = $1`, id)
	node, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get node: %w", err)
	}
	return node, true, nil
}

func (s *PostgresStore) Nodes(ctx context.Context, filter *Filter) ([]*Node, error) {
	if filter == nil {
		filter = &Filter{}
	}
	query := `SELECT ` + nodeColumns + ` FROM graph_nodes WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR node_type = $2) ORDER BY created_at, id`
	args := []interface{}{filter.UserID, filter.Type}
	if filter.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, filter.Limit)
	}
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()
	var ret []*Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		ret = append(ret, node)
	}
	return ret, rows.Err()
}

func (s *PostgresStore) DeleteNode(ctx context.Context, id string) (bool, error) {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM graph_nodes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete node: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete node: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) CreateEdge(ctx context.Context, edge *Edge) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO graph_edges (id, user_id, source_id, target_id, edge_type, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		edge.ID, edge.UserID, edge.SourceID, edge.TargetID, edge.Type, edge.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert edge: %w", err)
	}
	return nil
}

func (s *PostgresStore) Edges(ctx context.Context, nodeID string) ([]*Edge, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, source_id, target_id, edge_type, created_at FROM graph_edges WHERE source_id = $1 OR target_id = $1 ORDER BY created_at, id`,
		nodeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	defer rows.Close()
	ret := make([]*Edge, 0)
	for rows.Next() {
		edge := &Edge{}
		if err := rows.Scan(&edge.ID, &edge.UserID, &edge.SourceID, &edge.TargetID, &edge.Type, &edge.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		ret = append(ret, edge)
	}
	return ret, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNode(row scanner) (*Node, error) {
	node := &Node{}
	var description sql.NullString
	var properties []byte
	if err := row.Scan(&node.ID, &node.UserID, &node.Type, &node.Label, &description, &properties, &node.CreatedAt); err != nil {
		return nil, err
	}
	node.Description = description.String
	if len(properties) > 0 {
		if err := json.Unmarshal(properties, &node.Properties); err != nil {
			return nil, fmt.Errorf("decode node properties: %w", err)
		}
	}
	return node, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
