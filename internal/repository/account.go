package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/vaultpass/passforge-go/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

const (
	insertAccountQuery    = `INSERT INTO accounts (email, auth_hash) VALUES (?, ?)`
	selectAccountColumns  = `SELECT id, email, auth_hash, created_at, updated_at FROM accounts`
	accountByEmailQuery   = selectAccountColumns + ` WHERE email = ?`
	accountByIDQuery      = selectAccountColumns + ` WHERE id = ?`
	mysqlDuplicateEntryNo = 1062
)

// AccountRepository handles account persistence.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts acct and sets its generated ID.
func (r *AccountRepository) Create(ctx context.Context, acct *model.Account) error {
	result, err := r.db.ExecContext(ctx, insertAccountQuery, acct.Email, acct.AuthHash)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	acct.ID = id
	return nil
}

// GetByEmail retrieves an account by email address.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, accountByEmailQuery, email))
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, accountByIDQuery, id))
}

func (r *AccountRepository) scanOne(row *sql.Row) (*model.Account, error) {
	acct := &model.Account{}
	err := row.Scan(&acct.ID, &acct.Email, &acct.AuthHash, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return acct, nil
}

func isDuplicateEntryError(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntryNo
}
