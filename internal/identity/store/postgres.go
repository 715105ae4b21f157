package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"blockrent/internal/identity/models"
	id "blockrent/pkg/domain"
	"blockrent/pkg/platform/sentinel"
	txcontext "blockrent/pkg/platform/tx"
)

// PostgresStore persists users in the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, account_id, role, status, first_name, last_name,
			contact_number, email, password_hash, created_at, verified_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(user.ID),
		user.AccountID,
		string(user.Role),
		string(user.Status),
		user.FirstName,
		user.LastName,
		user.ContactNumber,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.VerifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = $1", email)
}

func (s *PostgresStore) FindByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	return s.findOne(ctx, "account_id = $1", accountID)
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, account_id, role, status, first_name, last_name,
		       contact_number, email, password_hash, created_at, verified_at
		FROM users
		WHERE ` + where

	var (
		user   models.User
		userID uuid.UUID
		role   string
		status string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&userID,
		&user.AccountID,
		&role,
		&status,
		&user.FirstName,
		&user.LastName,
		&user.ContactNumber,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.VerifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	user.ID = id.UserID(userID)
	user.Role = models.Role(role)
	user.Status = models.Status(status)
	return &user, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
