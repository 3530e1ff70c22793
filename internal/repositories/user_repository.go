package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"shuttlego/internal/domain"
	"shuttlego/internal/domain/models"
)

const mysqlDuplicateEntry = 1062

// UserRepository stores sign-in accounts in MySQL.
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) Create(ctx context.Context, u models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, role, password_hash, created_at)
		VALUES (?,?,?,?,?,?)`,
		u.ID, strings.ToLower(u.Email), u.FullName, u.Role, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r UserRepository) getOne(ctx context.Context, where string, arg any) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, full_name, role, password_hash, created_at FROM users `+where, arg).
		Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return u, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
