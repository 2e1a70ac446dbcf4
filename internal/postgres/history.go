package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"newsroom/internal/models"
)

// HistoryStore appends download audit records.
type HistoryStore struct {
	db *sqlx.DB
}

func NewHistoryStore(db *sqlx.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// RecordDownload writes one audit row.
func (s *HistoryStore) RecordDownload(ctx context.Context, rec models.HistoryRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, action, user_id, company_id, item_id, version, section, versioncreated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Action, rec.UserID, rec.CompanyID, rec.ItemID, rec.Version, rec.Section, rec.VersionCreated)
	return err
}

// ListForItem returns the audit records of one item, newest first.
func (s *HistoryStore) ListForItem(ctx context.Context, itemID string) ([]models.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, user_id, company_id, item_id, version, section, versioncreated
		 FROM history WHERE item_id = $1 ORDER BY versioncreated DESC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var rec models.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.Action, &rec.UserID, &rec.CompanyID,
			&rec.ItemID, &rec.Version, &rec.Section, &rec.VersionCreated); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
