package ledger

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"satsforgood/donation/db"
)

// GormStore is the MySQL-backed ledger. The unique index on payment_id
// makes Append an atomic compare-and-insert.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) Append(d Donation) (Donation, bool, error) {
	row := db.Donation{
		DonationID: d.ID,
		DonorName:  d.DonorName,
		Recipient:  d.Recipient,
		Amount:     d.Amount,
		PaymentID:  d.PaymentID,
		PaidAt:     d.PaidAt,
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return Donation{}, false, result.Error
	}
	if result.RowsAffected > 0 {
		return d, true, nil
	}

	// lost the race, reuse the record that won
	existing, ok, err := s.FindByPaymentID(d.PaymentID)
	if err != nil {
		return Donation{}, false, err
	}
	if !ok {
		return Donation{}, false, errors.New("donation vanished after conflicting insert")
	}
	return existing, false, nil
}

func (s *GormStore) FindByPaymentID(paymentID string) (Donation, bool, error) {
	var row db.Donation
	result := s.db.Where("payment_id = ?", paymentID).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Donation{}, false, nil
	}
	if result.Error != nil {
		return Donation{}, false, result.Error
	}
	return fromRow(row), true, nil
}

func (s *GormStore) Stats() (Stats, error) {
	var agg struct {
		Total int64
		Count int
	}
	result := s.db.Model(&db.Donation{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&agg)
	if result.Error != nil {
		return Stats{}, result.Error
	}
	return Stats{TotalSats: agg.Total, DonorCount: agg.Count}, nil
}

func (s *GormStore) Recent(limit int) ([]Donation, error) {
	if limit < 0 {
		limit = 0
	}
	var rows []db.Donation
	result := s.db.Order("paid_at DESC, seq DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	donations := make([]Donation, len(rows))
	for i, row := range rows {
		donations[i] = fromRow(row)
	}
	return donations, nil
}

func fromRow(row db.Donation) Donation {
	return Donation{
		ID:        row.DonationID,
		DonorName: row.DonorName,
		Recipient: row.Recipient,
		Amount:    row.Amount,
		PaymentID: row.PaymentID,
		PaidAt:    row.PaidAt,
	}
}
