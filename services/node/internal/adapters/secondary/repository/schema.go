package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Les ids de posts sont des TEXT comparés en COLLATE "C" : même ordre
// octet par octet que feed.Compare, sinon le curseur saute ou répète des posts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		display_name  TEXT NOT NULL DEFAULT '',
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL,
		profile_image TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email))`,

	`CREATE TABLE IF NOT EXISTS posts (
		id         TEXT PRIMARY KEY,
		author     TEXT NOT NULL REFERENCES users (username) ON DELETE CASCADE,
		title      TEXT NOT NULL DEFAULT '',
		content    TEXT NOT NULL DEFAULT '',
		image      TEXT NOT NULL DEFAULT '',
		visibility TEXT NOT NULL CHECK (visibility IN ('PUBLIC', 'FRIENDS', 'UNLISTED', 'PRIVATE', 'DRAFT')),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS posts_feed_idx ON posts (created_at DESC, id COLLATE "C")`,
	`CREATE INDEX IF NOT EXISTS posts_author_idx ON posts (author, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS post_likes (
		post_id  TEXT NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
		username TEXT NOT NULL,
		PRIMARY KEY (post_id, username)
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         TEXT PRIMARY KEY,
		post_id    TEXT NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
		author     TEXT NOT NULL,
		text       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS comment_likes (
		comment_id TEXT NOT NULL REFERENCES comments (id) ON DELETE CASCADE,
		username   TEXT NOT NULL,
		PRIMARY KEY (comment_id, username)
	)`,
}

// EnsureSchema crée les tables si besoin (idempotent).
// En prod on passerait par des migrations versionnées.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
