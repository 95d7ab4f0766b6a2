// Package storage persists candidate posts and their approval state in
// PostgreSQL. The pipeline itself only reads approval history back to feed
// the preference learner; writing approvals is the operator's action.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"aiscout/internal/domain"
	"aiscout/internal/retry"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Store struct {
	db *sql.DB
}

// New connects to Postgres with a bounded retry and makes sure the schema
// exists.
func New(ctx context.Context, connectionString string, attempts int, delay time.Duration) (*Store, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if attempts <= 0 {
		attempts = 1
	}
	err = retry.WithRetry(ctx, retry.Config{MaxAttempts: attempts, Delay: delay, Backoff: true}, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	log.Println("✅ postgres store connected")
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT UNIQUE NOT NULL,
		content TEXT,
		summary TEXT,
		promo_text TEXT,
		source TEXT,
		keywords TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_posted BOOLEAN NOT NULL DEFAULT FALSE,
		is_approved BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_posts_approved ON posts (is_approved);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SavePost upserts a candidate post by URL, refreshing the generated texts
// on conflict but never touching approval flags.
func (s *Store) SavePost(ctx context.Context, post domain.Post) error {
	query, args, err := builder.
		Insert("posts").
		Columns("title", "url", "content", "summary", "promo_text", "source", "keywords").
		Values(post.Title, post.URL, post.Content, post.Summary, post.Promo, post.Source, strings.Join(post.Keywords, ",")).
		Suffix(`ON CONFLICT (url) DO UPDATE
			SET summary = EXCLUDED.summary,
			    promo_text = EXCLUDED.promo_text,
			    keywords = EXCLUDED.keywords`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert post: %w", err)
	}
	return nil
}

// Approved returns the approval history used as the learner's training
// input: title, source and matched keywords per record, with the stored
// creation time as the post timestamp.
func (s *Store) Approved(ctx context.Context) ([]domain.Post, error) {
	query, args, err := builder.
		Select("title", "url", "source", "keywords", "created_at").
		From("posts").
		Where(sq.Eq{"is_approved": true}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query approved: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var (
			post      domain.Post
			kws       string
			createdAt time.Time
		)
		if err := rows.Scan(&post.Title, &post.URL, &post.Source, &kws, &createdAt); err != nil {
			return nil, fmt.Errorf("scan approved: %w", err)
		}
		if kws != "" {
			post.Keywords = strings.Split(kws, ",")
		}
		post.Published = &createdAt
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return posts, nil
}

// MarkApproved records an operator approval for a post URL.
func (s *Store) MarkApproved(ctx context.Context, url string) error {
	return s.setFlag(ctx, url, "is_approved")
}

// MarkPosted records that a post's promo text went out.
func (s *Store) MarkPosted(ctx context.Context, url string) error {
	return s.setFlag(ctx, url, "is_posted")
}

func (s *Store) setFlag(ctx context.Context, url, column string) error {
	query, args, err := builder.
		Update("posts").
		Set(column, true).
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no post with url %s", url)
	}
	return nil
}
