package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"newsroom/internal/models"
)

// CompanyStore persists subscriber companies and their embedded-media
// permission flags.
type CompanyStore struct {
	db *sqlx.DB
}

func NewCompanyStore(db *sqlx.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

// GetCompany returns the company or (nil, nil) when it does not exist.
func (s *CompanyStore) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, is_enabled, embedded FROM companies WHERE id = $1`, id)
	company, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return company, err
}

func (s *CompanyStore) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_enabled, embedded FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

func (s *CompanyStore) CreateCompany(ctx context.Context, company *models.Company) error {
	embedded, err := json.Marshal(company.Embedded)
	if err != nil {
		return fmt.Errorf("marshal embedded flags: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, is_enabled, embedded) VALUES ($1, $2, $3, $4)`,
		company.ID, company.Name, company.IsEnabled, embedded)
	return err
}

func (s *CompanyStore) UpdateCompany(ctx context.Context, company *models.Company) error {
	embedded, err := json.Marshal(company.Embedded)
	if err != nil {
		return fmt.Errorf("marshal embedded flags: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE companies SET name = $2, is_enabled = $3, embedded = $4 WHERE id = $1`,
		company.ID, company.Name, company.IsEnabled, embedded)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *CompanyStore) DeleteCompany(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var company models.Company
	var embedded []byte
	if err := row.Scan(&company.ID, &company.Name, &company.IsEnabled, &embedded); err != nil {
		return nil, err
	}
	if len(embedded) > 0 {
		if err := json.Unmarshal(embedded, &company.Embedded); err != nil {
			return nil, fmt.Errorf("decode embedded flags: %w", err)
		}
	}
	return &company, nil
}

// ErrNotFound marks a write against a missing row.
var ErrNotFound = errors.New("not found")

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
