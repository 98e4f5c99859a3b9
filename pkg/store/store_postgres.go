package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const (
	tablePrefix = "calassist_"
)

type PostgresStore struct {
	db  *sql.DB
	ctx context.Context
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		ctx: ctx,
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	migrations := []string{
		// Cached completions
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %skv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`, tablePrefix),

		// Generated links
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %slinks (
			id SERIAL PRIMARY KEY,
			url TEXT NOT NULL,
			text TEXT NOT NULL,
			event_name TEXT NOT NULL,
			provider TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`, tablePrefix),
	}

	for _, migration := range migrations {
		if _, err := s.db.ExecContext(s.ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetReply(key string) (string, error) {
	var value string
	query := fmt.Sprintf("SELECT value FROM %skv WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())", tablePrefix)
	err := s.db.QueryRowContext(s.ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}

	return value, err
}

func (s *PostgresStore) SetReply(key string, content string, ttl time.Duration) error {
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
	}

	query := fmt.Sprintf(`
		INSERT INTO %skv (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, expires_at = $3, updated_at = NOW()
	`, tablePrefix)
	_, err := s.db.ExecContext(s.ctx, query, key, content, expiresAt)
	return err
}

func (s *PostgresStore) AddLink(link Link) error {
	query := fmt.Sprintf("INSERT INTO %slinks (url, text, event_name, provider, created_at) VALUES ($1, $2, $3, $4, $5)", tablePrefix)
	if _, err := s.db.ExecContext(s.ctx, query, link.URL, link.Text, link.EventName, link.Provider, link.At); err != nil {
		return err
	}

	// Keep only last links
	deleteQuery := fmt.Sprintf(`
		DELETE FROM %slinks
		WHERE id NOT IN (
			SELECT id FROM %slinks ORDER BY id DESC LIMIT %d
		)
	`, tablePrefix, tablePrefix, historyLimit)
	_, err := s.db.ExecContext(s.ctx, deleteQuery)
	return err
}

func (s *PostgresStore) GetLinks(limit int) ([]Link, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}

	query := fmt.Sprintf("SELECT url, text, event_name, provider, created_at FROM %slinks ORDER BY id DESC LIMIT $1", tablePrefix)
	rows, err := s.db.QueryContext(s.ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var links []Link
	for rows.Next() {
		var link Link
		if err := rows.Scan(&link.URL, &link.Text, &link.EventName, &link.Provider, &link.At); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}
