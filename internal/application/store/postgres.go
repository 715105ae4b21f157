package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"blockrent/internal/application/models"
	id "blockrent/pkg/domain"
	"blockrent/pkg/platform/sentinel"
	txcontext "blockrent/pkg/platform/tx"
)

// PostgresStore persists applications in the applications table.
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

const applicationColumns = `
	id, internal_id, contract_number, tenant_id, owner_id,
	address, start_date, end_date, property_usage, property_size,
	annual_rent, currency, total_value,
	deposit_term_type, deposit_amount, deposit_percentage,
	confirmed_by_tenant, confirmed_by_owner, status,
	tenant_claim, owner_claim, created_at, updated_at, deleted_at`

func (s *PostgresStore) Create(ctx context.Context, application *models.Application) error {
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(application.ID),
		application.InternalID,
		application.ContractNumber,
		application.TenantID,
		application.OwnerID,
		application.Lease.Address,
		application.Lease.StartDate,
		application.Lease.EndDate,
		application.Lease.PropertyUsage,
		application.Lease.PropertySize,
		application.Lease.AnnualRent,
		string(application.Lease.Currency),
		application.Lease.TotalValue,
		string(application.Deposit.TermType),
		application.Deposit.Amount,
		application.Deposit.Percentage,
		application.ConfirmedByTenant,
		application.ConfirmedByOwner,
		string(application.Status),
		application.TenantClaim,
		application.OwnerClaim,
		application.CreatedAt,
		application.UpdatedAt,
		application.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, application *models.Application) error {
	query := `
		UPDATE applications SET
			address = $2, start_date = $3, end_date = $4,
			property_usage = $5, property_size = $6,
			annual_rent = $7, currency = $8, total_value = $9,
			deposit_term_type = $10, deposit_amount = $11, deposit_percentage = $12,
			confirmed_by_tenant = $13, confirmed_by_owner = $14, status = $15,
			tenant_claim = $16, owner_claim = $17, updated_at = $18, deleted_at = $19
		WHERE internal_id = $1
	`
	result, err := s.execer(ctx).ExecContext(ctx, query,
		application.InternalID,
		application.Lease.Address,
		application.Lease.StartDate,
		application.Lease.EndDate,
		application.Lease.PropertyUsage,
		application.Lease.PropertySize,
		application.Lease.AnnualRent,
		string(application.Lease.Currency),
		application.Lease.TotalValue,
		string(application.Deposit.TermType),
		application.Deposit.Amount,
		application.Deposit.Percentage,
		application.ConfirmedByTenant,
		application.ConfirmedByOwner,
		string(application.Status),
		application.TenantClaim,
		application.OwnerClaim,
		application.UpdatedAt,
		application.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByInternalID(ctx context.Context, internalID string) (*models.Application, error) {
	return s.findOne(ctx, "internal_id = $1", internalID)
}

func (s *PostgresStore) FindByContractNumber(ctx context.Context, contractNumber string) (*models.Application, error) {
	return s.findOne(ctx, "contract_number = $1 AND deleted_at IS NULL", contractNumber)
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE ` + where
	row := s.db.QueryRowContext(ctx, query, arg)
	application, err := scanApplication(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query application: %w", err)
	}
	return application, nil
}

func (s *PostgresStore) List(ctx context.Context, q Query) ([]models.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR tenant_id = $1)
		  AND ($2 = '' OR owner_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, q.TenantID, q.OwnerID, string(q.Status))
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var applications []models.Application
	for rows.Next() {
		application, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		applications = append(applications, *application)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return applications, nil
}

func scanApplication(scan func(dest ...any) error) (*models.Application, error) {
	var (
		application   models.Application
		applicationID uuid.UUID
		currency      string
		termType      string
		status        string
	)
	err := scan(
		&applicationID,
		&application.InternalID,
		&application.ContractNumber,
		&application.TenantID,
		&application.OwnerID,
		&application.Lease.Address,
		&application.Lease.StartDate,
		&application.Lease.EndDate,
		&application.Lease.PropertyUsage,
		&application.Lease.PropertySize,
		&application.Lease.AnnualRent,
		&currency,
		&application.Lease.TotalValue,
		&termType,
		&application.Deposit.Amount,
		&application.Deposit.Percentage,
		&application.ConfirmedByTenant,
		&application.ConfirmedByOwner,
		&status,
		&application.TenantClaim,
		&application.OwnerClaim,
		&application.CreatedAt,
		&application.UpdatedAt,
		&application.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	application.ID = id.ApplicationID(applicationID)
	application.Lease.Currency = models.Currency(currency)
	application.Deposit.TermType = models.DepositTermType(termType)
	application.Status = models.Status(status)
	return &application, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
