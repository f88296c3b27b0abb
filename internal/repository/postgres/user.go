package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkazak/authgate/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const uniqueViolation = "23505"

// UserRepository is the postgres-backed user directory. It owns password
// hashing: plaintext never reaches a query.
type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, name, email, password_hash, role, email_verified, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.EmailVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user model.User, password string) (model.User, error) {
	hash, err := model.HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	query := `INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query, user.ID, user.Name, user.Email, hash, user.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + userColumns + ` FROM users
			  WHERE ($1::text IS NULL OR role = $1)
			  ORDER BY created_at
			  LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, (*string)(filter.Role), limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (model.User, error) {
	var hash *string
	if update.Password != nil {
		h, err := model.HashPassword(*update.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = &h
	}

	query := `UPDATE users SET
				name = COALESCE($2, name),
				email = COALESCE($3, email),
				password_hash = COALESCE($4, password_hash),
				role = COALESCE($5, role),
				updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, update.Name, update.Email, hash, (*string)(update.Role)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, password string) (model.User, error) {
	hash, err := model.HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `UPDATE users SET password_hash = $2, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, hash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update password: %w", err)
	}

	return user, nil
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `UPDATE users SET email_verified = TRUE, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to mark email verified: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
