package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

const userColumns = `username, display_name, first_name, last_name, email, profile_image, password_hash, is_admin, created_at, updated_at`

type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (` + userColumns + `)
		VALUES (@username, @display_name, @first_name, @last_name, @email, @profile_image, @password_hash, @is_admin, @created_at, @updated_at)
	`
	_, err := r.db.Exec(ctx, q, userArgs(user))
	if err != nil {
		return userError(err)
	}
	return nil
}

func (r *PostgresUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, q, username))
}

// GetByEmail : comparaison insensible à la casse, couverte par users_email_key.
func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRow(ctx, q, email))
}

func (r *PostgresUserRepo) Update(ctx context.Context, user *domain.User) error {
	q := `
		UPDATE users
		SET display_name = @display_name, email = @email, profile_image = @profile_image,
		    first_name = @first_name, last_name = @last_name, updated_at = @updated_at
		WHERE username = @username
	`
	tag, err := r.db.Exec(ctx, q, userArgs(user))
	if err != nil {
		return userError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List pagine par username ; COLLATE "C" aligne l'ordre sur la comparaison d'octets.
func (r *PostgresUserRepo) List(ctx context.Context, exclude, after string, limit int) ([]*domain.User, error) {
	q := `
		SELECT ` + userColumns + ` FROM users
		WHERE username <> @exclude AND username COLLATE "C" > @after
		ORDER BY username COLLATE "C"
		LIMIT @limit
	`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"exclude": exclude, "after": after, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("db: list users: %w", err)
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: list users: %w", err)
	}
	return out, nil
}

func userArgs(u *domain.User) pgx.NamedArgs {
	return pgx.NamedArgs{
		"username":      u.Username,
		"display_name":  u.DisplayName,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"email":         u.Email,
		"profile_image": u.ProfileImage,
		"password_hash": u.PasswordHash,
		"is_admin":      u.IsAdmin,
		"created_at":    u.CreatedAt,
		"updated_at":    u.UpdatedAt,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Username, &u.DisplayName, &u.FirstName, &u.LastName, &u.Email,
		&u.ProfileImage, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db: scan user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

// userError traduit les violations d'unicité (23505) selon la contrainte touchée.
func userError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "users_email_key" {
			return domain.ErrEmailAlreadyExists
		}
		return domain.ErrUsernameTaken
	}
	return err
}
