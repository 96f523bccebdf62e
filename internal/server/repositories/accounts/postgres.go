package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/dbx"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Name, &a.Surname, &a.Email, &a.HashedPassword, &a.Active, &a.Roles, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// dbError wraps err, turning a unique violation into ErrConstraintViolation.
func dbError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrConstraintViolation, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (user_id, name, surname, email, hashed_password, is_active, roles)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Name, account.Surname, account.Email,
		account.HashedPassword, account.Active, account.Roles).Scan(&account.CreatedAt)

	if err != nil {
		return nil, dbError(err)
	}

	return account, nil
}

func (r *PostgresRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT user_id, name, surname, email, hashed_password, is_active, roles, created_at FROM users
		 WHERE email = $1 AND is_active
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetActiveByID(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT user_id, name, surname, email, hashed_password, is_active, roles, created_at FROM users
		 WHERE user_id = $1 AND is_active
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetActiveByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT user_id, name, surname, email, hashed_password, is_active, roles, created_at FROM users
		 WHERE user_id = $1 AND is_active
		 FOR UPDATE
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// Update applies the non-nil fields of delta in a fixed column order.
func (r *PostgresRepository) Update(ctx context.Context, id string, delta models.AccountDelta) (string, error) {
	if delta.IsEmpty() {
		return "", fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", common.ErrorNotFound
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if delta.Name != nil {
		add("name", *delta.Name)
	}
	if delta.Surname != nil {
		add("surname", *delta.Surname)
	}
	if delta.Email != nil {
		add("email", *delta.Email)
	}
	if delta.Roles != nil {
		add("roles", delta.Roles)
	}
	args = append(args, id)

	query := "UPDATE users SET " + strings.Join(sets, ", ") +
		" WHERE user_id = $" + strconv.Itoa(len(args)) + " AND is_active RETURNING user_id"

	var updated string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", dbError(err)
	}

	return updated, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	query :=
		`UPDATE users SET hashed_password = $1
		 WHERE user_id = $2 AND is_active
		 `

	res, err := r.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", common.ErrorNotFound
	}

	query :=
		`UPDATE users SET is_active = false
		 WHERE user_id = $1 AND is_active
		 RETURNING user_id
		 `

	var deleted string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return deleted, nil
}
