package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"newsroom/internal/models"
)

// ProductStore persists the commercial products companies subscribe to.
type ProductStore struct {
	db *sqlx.DB
}

func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

// GetProductsForCompany lists the products of a company for a product
// type (section). An empty productType matches every type.
func (s *ProductStore) GetProductsForCompany(ctx context.Context, companyID, productType string) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, sd_product_id, product_type, is_enabled, companies
		 FROM products
		 WHERE $1 = ANY(companies) AND ($2 = '' OR product_type = $2)
		 ORDER BY name`,
		companyID, productType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var companies pq.StringArray
		if err := rows.Scan(&p.ID, &p.Name, &p.SDProductID, &p.ProductType, &p.IsEnabled, &companies); err != nil {
			return nil, err
		}
		p.Companies = companies
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *ProductStore) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, sd_product_id, product_type, is_enabled, companies)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.SDProductID, p.ProductType, p.IsEnabled, pq.Array(p.Companies))
	return err
}
