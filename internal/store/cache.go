package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

func (s *Store) Open(ctx context.Context, name string) (Cache, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO cache_stores (name, created_at) VALUES (?, ?)`,
		name, time.Now().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("open cache store %q: %w", name, err)
	}
	return &sqlCache{db: s.db, name: name}, nil
}

func (s *Store) Has(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cache_stores WHERE name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query cache store %q: %w", name, err)
	}
	return n > 0, nil
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM cache_stores ORDER BY created_at, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list cache stores: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan cache store: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_entries WHERE store = ?`, name); err != nil {
		return false, fmt.Errorf("delete entries of %q: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM cache_stores WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("delete cache store %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return n > 0, nil
}

// sqlCache is one named store inside the SQLite database.
type sqlCache struct {
	db   *sql.DB
	name string
}

func (c *sqlCache) Name() string {
	return c.name
}

func (c *sqlCache) Match(ctx context.Context, key string) (*CachedResponse, error) {
	var (
		resp     CachedResponse
		header   string
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT url, status, header, body, stored_at FROM cache_entries WHERE store = ? AND key = ?`,
		c.name, key,
	).Scan(&resp.URL, &resp.Status, &header, &resp.Body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("match %q in %q: %w", key, c.name, err)
	}

	resp.Header = http.Header{}
	if err := json.Unmarshal([]byte(header), &resp.Header); err != nil {
		return nil, fmt.Errorf("decode header of %q: %w", key, err)
	}
	resp.StoredAt = time.Unix(0, storedAt).UTC()
	return &resp, nil
}

func (c *sqlCache) Put(ctx context.Context, key string, resp *CachedResponse) error {
	return c.PutAll(ctx, map[string]*CachedResponse{key: resp})
}

func (c *sqlCache) PutAll(ctx context.Context, entries map[string]*CachedResponse) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// The store row may have been deleted by an activation since Open.
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO cache_stores (name, created_at) VALUES (?, ?)`,
		c.name, time.Now().UnixNano(),
	); err != nil {
		return fmt.Errorf("ensure cache store %q: %w", c.name, err)
	}

	for key, resp := range entries {
		header, err := json.Marshal(resp.Header)
		if err != nil {
			return fmt.Errorf("encode header of %q: %w", key, err)
		}
		storedAt := resp.StoredAt
		if storedAt.IsZero() {
			storedAt = time.Now()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO cache_entries (store, key, url, status, header, body, stored_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.name, key, resp.URL, resp.Status, string(header), resp.Body, storedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("put %q in %q: %w", key, c.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (c *sqlCache) Keys(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT key FROM cache_entries WHERE store = ? ORDER BY key`, c.name,
	)
	if err != nil {
		return nil, fmt.Errorf("list keys of %q: %w", c.name, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
