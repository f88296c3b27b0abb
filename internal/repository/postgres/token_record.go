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

var _ model.TokenRecordStore = (*TokenRecordRepository)(nil)

type TokenRecordRepository struct {
	db *Connection
}

func NewTokenRecordRepository(db *Connection) *TokenRecordRepository {
	return &TokenRecordRepository{db: db}
}

const tokenColumns = `id, token, user_id, kind, expires_at, blacklisted, created_at, updated_at`

func scanTokenRecord(row pgx.Row) (model.TokenRecord, error) {
	var rec model.TokenRecord
	err := row.Scan(
		&rec.ID, &rec.Token, &rec.UserID, &rec.Kind, &rec.ExpiresAt,
		&rec.Blacklisted, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func (r *TokenRecordRepository) Create(ctx context.Context, record model.TokenRecord) error {
	const query = `
        INSERT INTO auth_tokens (id, token, user_id, kind, expires_at, blacklisted, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
    `

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		record.ID, record.Token, record.UserID, record.Kind, record.ExpiresAt, record.Blacklisted,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// The signer's entropy makes this effectively unreachable; it
			// must surface, never overwrite.
			return fmt.Errorf("token record collision: %w", err)
		}
		return fmt.Errorf("failed to create token record: %w", err)
	}
	return nil
}

func (r *TokenRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (model.TokenRecord, error) {
	const query = `SELECT ` + tokenColumns + ` FROM auth_tokens WHERE id = $1`

	rec, err := scanTokenRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TokenRecord{}, model.ErrNotFound
		}
		return model.TokenRecord{}, fmt.Errorf("failed to get token record by id: %w", err)
	}
	return rec, nil
}

func (r *TokenRecordRepository) FindOne(ctx context.Context, token string, kind model.TokenKind, userID uuid.UUID) (model.TokenRecord, error) {
	const query = `
        SELECT ` + tokenColumns + ` FROM auth_tokens
        WHERE token = $1 AND kind = $2 AND user_id = $3 AND blacklisted = FALSE
    `

	rec, err := scanTokenRecord(r.db.QueryRow(ctx, query, token, kind, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TokenRecord{}, model.ErrNotFound
		}
		return model.TokenRecord{}, fmt.Errorf("failed to find token record: %w", err)
	}
	return rec, nil
}

func (r *TokenRecordRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM auth_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete token record: %w", err)
	}
	// Zero rows means another request consumed the record first; callers
	// rely on this to fail the losing side of a rotation race.
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *TokenRecordRepository) DeleteAllByUserAndKind(ctx context.Context, userID uuid.UUID, kind model.TokenKind) error {
	_, err := r.db.Exec(ctx, `DELETE FROM auth_tokens WHERE user_id = $1 AND kind = $2`, userID, kind)
	if err != nil {
		return fmt.Errorf("failed to delete token records: %w", err)
	}
	return nil
}
