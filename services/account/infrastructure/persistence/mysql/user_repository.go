package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/ghuser/gamercart/pkg/database"
	accountdomain "github.com/ghuser/gamercart/services/account/domain"
	"github.com/ghuser/gamercart/services/account/domain/models"
)

// erDupEntry is the MySQL error number for a unique key violation.
const erDupEntry = 1062

// UserRepository implements repositories.UserRepository against MySQL.
type UserRepository struct {
	db database.Querier
}

// NewUserRepository returns a UserRepository using db.
func NewUserRepository(db database.Querier) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail looks the user up by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var (
		u       models.User
		created sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, nombre, email, password, rol, creado_en FROM usuarios WHERE email = ?",
		models.NormalizeEmail(email),
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountdomain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = created.Time
	return &u, nil
}

// Create inserts the user.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO usuarios (nombre, email, password, rol, creado_en) VALUES (?, ?, ?, ?, ?)",
		u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == erDupEntry {
			return accountdomain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	u.ID = id
	return nil
}
