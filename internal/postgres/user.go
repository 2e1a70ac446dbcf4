package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"newsroom/internal/models"
)

// UserStore persists subscriber accounts.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, first_name, last_name, email, COALESCE(company_id, ''), token, is_enabled`

// GetUser returns the user or (nil, nil) when it does not exist.
func (s *UserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// GetUserByToken resolves an access token to its enabled account, or
// (nil, nil) for an unknown or disabled token.
func (s *UserStore) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE token = $1 AND is_enabled`, token)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (s *UserStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, email, company_id, token, is_enabled)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.CompanyID, user.Token, user.IsEnabled)
	return err
}

func (s *UserStore) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, email = $4,
		 company_id = NULLIF($5, ''), token = $6, is_enabled = $7 WHERE id = $1`,
		user.ID, user.FirstName, user.LastName, user.Email, user.CompanyID, user.Token, user.IsEnabled)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *UserStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.CompanyID, &user.Token, &user.IsEnabled); err != nil {
		return nil, err
	}
	return &user, nil
}
