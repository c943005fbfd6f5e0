// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists post records and their interaction counters in
// SQLite, and answers the dedup predicate the word picker filters through.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/post-engine/pkg/types"
)

const defaultDBPath = "posts_data.db"

// Store manages the posts/interactions SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// New opens or creates the database at cfg.DBPath and bootstraps the schema.
func New(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = defaultDBPath
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			word TEXT NOT NULL,
			level TEXT,
			prompt_version TEXT,
			title TEXT,
			tags TEXT,
			image_suggestion TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			published_at TIMESTAMP,
			post_url TEXT,
			UNIQUE(word, level, prompt_version, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER NOT NULL REFERENCES posts(id),
			likes INTEGER DEFAULT 0,
			favorites INTEGER DEFAULT 0,
			comments INTEGER DEFAULT 0,
			views INTEGER DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(post_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_dedup ON posts(word, level, prompt_version)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordPost inserts one post row plus its zeroed interactions row and
// returns the new post ID. Tags are stored as a JSON array.
func (s *Store) RecordPost(ctx context.Context, post *types.WordPost, level, promptVersion, postURL string) (int64, error) {
	tagsJSON, err := json.Marshal(post.Tags)
	if err != nil {
		return 0, fmt.Errorf("marshaling tags: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO posts (word, level, prompt_version, title, tags, image_suggestion, published_at, post_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.Word, nullable(level), promptVersion, post.Title, string(tagsJSON),
		nullable(post.ImageSuggestion), time.Now().UTC().Format(time.RFC3339), nullable(postURL),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting post: %w", err)
	}

	postID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading post ID: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO interactions (post_id) VALUES (?)`, postID,
	); err != nil {
		return 0, fmt.Errorf("inserting interactions stub: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return postID, nil
}

// HasPosted reports whether a (word, level, promptVersion) triple is already
// recorded. This is the dedup predicate the word picker filters through;
// errors read as "not posted" so a broken store does not block generation.
func (s *Store) HasPosted(ctx context.Context, word, level, promptVersion string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM posts WHERE word = ? AND level = ? AND prompt_version = ?`,
		word, level, promptVersion,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying posts: %w", err)
	}
	return n > 0, nil
}

// InteractionUpdate carries the counters to change; nil fields are left
// untouched.
type InteractionUpdate struct {
	Likes     *int
	Favorites *int
	Comments  *int
	Views     *int
}

// IsEmpty reports whether the update changes nothing.
func (u InteractionUpdate) IsEmpty() bool {
	return u.Likes == nil && u.Favorites == nil && u.Comments == nil && u.Views == nil
}

// UpdateInteractions applies a partial interaction-counter update to one
// post. Returns false when the post ID has no interactions row or the update
// is empty.
func (s *Store) UpdateInteractions(ctx context.Context, postID int64, update InteractionUpdate) (bool, error) {
	var sets []string
	var params []any

	for _, col := range []struct {
		name  string
		value *int
	}{
		{"likes", update.Likes},
		{"favorites", update.Favorites},
		{"comments", update.Comments},
		{"views", update.Views},
	} {
		if col.value != nil {
			sets = append(sets, col.name+" = ?")
			params = append(params, *col.value)
		}
	}
	if len(sets) == 0 {
		return false, nil
	}

	sets = append(sets, "updated_at = ?")
	params = append(params, time.Now().UTC().Format(time.RFC3339), postID)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE interactions SET %s WHERE post_id = ?`, strings.Join(sets, ", ")),
		params...,
	)
	if err != nil {
		return false, fmt.Errorf("updating interactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n > 0, nil
}

// nullable maps "" to NULL so optional columns stay distinguishable.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
