package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

const postColumns = `p.id, p.author, p.title, p.content, p.image, p.visibility, p.created_at, p.updated_at,
	ARRAY(SELECT l.username FROM post_likes l WHERE l.post_id = p.id ORDER BY l.username) AS likes`

const commentColumns = `c.id, c.post_id, c.author, c.text, c.created_at,
	ARRAY(SELECT l.username FROM comment_likes l WHERE l.comment_id = c.id ORDER BY l.username) AS likes`

type PostgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(db *pgxpool.Pool) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

func (r *PostgresPostRepo) Save(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, author, title, content, image, visibility, created_at, updated_at)
		VALUES (@id, @author, @title, @content, @image, @visibility, @created_at, @updated_at)
	`
	if _, err := r.db.Exec(ctx, q, postArgs(post)); err != nil {
		return fmt.Errorf("db: insert post: %w", err)
	}
	return nil
}

func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts p WHERE p.id = $1`
	return scanPost(r.db.QueryRow(ctx, q, id))
}

// Update ne touche pas aux likes, gérés par TogglePostLike.
func (r *PostgresPostRepo) Update(ctx context.Context, post *domain.Post) error {
	q := `
		UPDATE posts
		SET title = @title, content = @content, image = @image, visibility = @visibility, updated_at = @updated_at
		WHERE id = @id
	`
	tag, err := r.db.Exec(ctx, q, postArgs(post))
	if err != nil {
		return fmt.Errorf("db: update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// Delete : likes et commentaires partent en cascade.
func (r *PostgresPostRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db: delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// List : pagination keyset sur (created_at DESC, id ASC).
func (r *PostgresPostRepo) List(ctx context.Context, f ports.PostFilter) ([]*domain.Post, error) {
	if f.IsEmpty() {
		return nil, nil
	}
	q, args := buildListQuery(f)
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("db: list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// buildListQuery combine en OU les clauses non vides du filtre,
// avec les mêmes règles que feed.Build pour que les pages restent pleines.
func buildListQuery(f ports.PostFilter) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	var or []string

	if f.IncludePublic {
		or = append(or, `p.visibility = 'PUBLIC'`)
	}
	if len(f.FriendAuthors) > 0 {
		or = append(or, `(p.author = ANY(@friends) AND p.visibility IN ('PUBLIC', 'FRIENDS'))`)
		args["friends"] = f.FriendAuthors
	}
	if f.Owner != "" {
		or = append(or, `p.author = @owner`)
		args["owner"] = f.Owner
	}
	if f.Author != "" && len(f.Visibilities) > 0 {
		vis := make([]string, len(f.Visibilities))
		for i, v := range f.Visibilities {
			vis[i] = string(v)
		}
		or = append(or, `(p.author = @author AND p.visibility = ANY(@visibilities))`)
		args["author"] = f.Author
		args["visibilities"] = vis
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + postColumns + ` FROM posts p WHERE (`)
	b.WriteString(strings.Join(or, " OR "))
	b.WriteString(`)`)

	if !f.After.IsZero() {
		b.WriteString(` AND (p.created_at < @cursor_at OR (p.created_at = @cursor_at AND p.id COLLATE "C" > @cursor_id))`)
		args["cursor_at"] = f.After.CreatedAt
		args["cursor_id"] = f.After.ID
	}
	b.WriteString(` ORDER BY p.created_at DESC, p.id COLLATE "C" ASC`)
	if f.Limit > 0 {
		b.WriteString(` LIMIT @limit`)
		args["limit"] = f.Limit
	}
	return b.String(), args
}

func (r *PostgresPostRepo) TogglePostLike(ctx context.Context, postID, username string) (bool, int, error) {
	return r.toggle(ctx, "posts", "post_likes", "post_id", postID, username, domain.ErrPostNotFound)
}

func (r *PostgresPostRepo) ToggleCommentLike(ctx context.Context, commentID, username string) (bool, int, error) {
	return r.toggle(ctx, "comments", "comment_likes", "comment_id", commentID, username, domain.ErrCommentNotFound)
}

// toggle supprime le like s'il existe, l'insère sinon, dans une seule transaction.
// Le compte est recalculé à partir de l'état avant la requête + le delta des CTE.
func (r *PostgresPostRepo) toggle(ctx context.Context, parent, table, fk, id, username string, notFound error) (liked bool, count int, err error) {
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var one int
		err := tx.QueryRow(ctx, `SELECT 1 FROM `+parent+` WHERE id = $1 FOR SHARE`, id).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound
		}
		if err != nil {
			return err
		}

		q := `
			WITH del AS (
				DELETE FROM ` + table + ` WHERE ` + fk + ` = @id AND username = @username RETURNING 1
			), ins AS (
				INSERT INTO ` + table + ` (` + fk + `, username)
				SELECT @id, @username WHERE NOT EXISTS (SELECT 1 FROM del)
				ON CONFLICT DO NOTHING
				RETURNING 1
			)
			SELECT EXISTS (SELECT 1 FROM ins),
			       (SELECT count(*) FROM ` + table + ` WHERE ` + fk + ` = @id)
			       + (SELECT count(*) FROM ins) - (SELECT count(*) FROM del)
		`
		return tx.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "username": username}).Scan(&liked, &count)
	})
	if err != nil {
		if errors.Is(err, notFound) {
			return false, 0, err
		}
		return false, 0, fmt.Errorf("db: toggle like: %w", err)
	}
	return liked, count, nil
}

func (r *PostgresPostRepo) SaveComment(ctx context.Context, c *domain.Comment) error {
	q := `
		INSERT INTO comments (id, post_id, author, text, created_at)
		SELECT @id, @post_id, @author, @text, @created_at
		WHERE EXISTS (SELECT 1 FROM posts WHERE id = @post_id)
	`
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":         c.ID,
		"post_id":    c.PostID,
		"author":     c.Author,
		"text":       c.Text,
		"created_at": c.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("db: insert comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostgresPostRepo) FindComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments c WHERE c.id = $1 AND c.post_id = $2`
	return scanComment(r.db.QueryRow(ctx, q, commentID, postID))
}

func (r *PostgresPostRepo) Comments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments c WHERE c.post_id = $1 ORDER BY c.created_at DESC, c.id COLLATE "C"`
	rows, err := r.db.Query(ctx, q, postID)
	if err != nil {
		return nil, fmt.Errorf("db: list comments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- Helpers ---

func postArgs(p *domain.Post) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":         p.ID,
		"author":     p.Author,
		"title":      p.Title,
		"content":    p.Content,
		"image":      p.Image,
		"visibility": string(p.Visibility),
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var (
		p     domain.Post
		vis   string
		likes []string
	)
	err := row.Scan(&p.ID, &p.Author, &p.Title, &p.Content, &p.Image, &vis, &p.CreatedAt, &p.UpdatedAt, &likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("db: scan post: %w", err)
	}
	p.Visibility = domain.Visibility(vis)
	p.Likes = domain.NewLikeSet(likes...)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var (
		c     domain.Comment
		likes []string
	)
	if err := row.Scan(&c.ID, &c.PostID, &c.Author, &c.Text, &c.CreatedAt, &likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("db: scan comment: %w", err)
	}
	c.Likes = domain.NewLikeSet(likes...)
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
