// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/post-engine/pkg/types"
)

// ComparePromptVersions aggregates interaction averages per prompt version,
// best average likes first.
func (s *Store) ComparePromptVersions(ctx context.Context) ([]types.GroupStats, error) {
	return s.groupStats(ctx, `
		SELECT p.prompt_version, COUNT(*), AVG(i.likes), AVG(i.favorites), AVG(i.comments)
		FROM posts p LEFT JOIN interactions i ON p.id = i.post_id
		GROUP BY p.prompt_version
		ORDER BY AVG(i.likes) DESC`)
}

// CompareLevels aggregates interaction averages per difficulty level, best
// average likes first. Posts without a level (legacy free-form runs) are
// excluded.
func (s *Store) CompareLevels(ctx context.Context) ([]types.GroupStats, error) {
	return s.groupStats(ctx, `
		SELECT p.level, COUNT(*), AVG(i.likes), AVG(i.favorites), AVG(i.comments)
		FROM posts p LEFT JOIN interactions i ON p.id = i.post_id
		WHERE p.level IS NOT NULL
		GROUP BY p.level
		ORDER BY AVG(i.likes) DESC`)
}

func (s *Store) groupStats(ctx context.Context, query string) ([]types.GroupStats, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	var stats []types.GroupStats
	for rows.Next() {
		var (
			key                    sql.NullString
			total                  int
			likes, favs, comments  sql.NullFloat64
		)
		if err := rows.Scan(&key, &total, &likes, &favs, &comments); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		stats = append(stats, types.GroupStats{
			Key:          key.String,
			TotalPosts:   total,
			AvgLikes:     round2(likes.Float64),
			AvgFavorites: round2(favs.Float64),
			AvgComments:  round2(comments.Float64),
		})
	}
	return stats, rows.Err()
}

// RecentPosts returns the newest posts joined with their interaction
// counters. A limit of 0 uses the store's configured default.
func (s *Store) RecentPosts(ctx context.Context, limit int) ([]types.PostRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.word, p.level, p.prompt_version, p.title, p.tags, p.created_at,
		       i.likes, i.favorites, i.comments, i.views
		FROM posts p LEFT JOIN interactions i ON p.id = i.post_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []types.PostRecord
	for rows.Next() {
		var (
			rec                    types.PostRecord
			level, version, title  sql.NullString
			tagsJSON               sql.NullString
			createdAt              string
			likes, favs, com, view sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Word, &level, &version, &title, &tagsJSON,
			&createdAt, &likes, &favs, &com, &view); err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}

		rec.Level = level.String
		rec.PromptVersion = version.String
		rec.Title = title.String
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &rec.Tags); err != nil {
				rec.Tags = nil
			}
		}
		if t, err := parseStoredTime(createdAt); err == nil {
			rec.CreatedAt = t
		}
		rec.Likes = int(likes.Int64)
		rec.Favorites = int(favs.Int64)
		rec.Comments = int(com.Int64)
		rec.Views = int(view.Int64)

		posts = append(posts, rec)
	}
	return posts, rows.Err()
}

// ExportYAML writes the most recent posts (up to limit, 0 for the default)
// to a YAML file.
func (s *Store) ExportYAML(ctx context.Context, path string, limit int) error {
	posts, err := s.RecentPosts(ctx, limit)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the most recent posts (up to limit, 0 for the default)
// to a JSON file.
func (s *Store) ExportJSON(ctx context.Context, path string, limit int) error {
	posts, err := s.RecentPosts(ctx, limit)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// parseStoredTime accepts both the RFC 3339 strings this package writes and
// the `YYYY-MM-DD HH:MM:SS` default SQLite lays down for created_at.
func parseStoredTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
