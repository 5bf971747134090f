package db

import "time"

type Donation struct {
	Seq        uint      `gorm:"primaryKey;autoIncrement"` // insertion order, used as ordering tiebreaker
	DonationID string    `gorm:"uniqueIndex;size:36"`      // uuid
	DonorName  string    `gorm:"size:255"`
	Recipient  string    `gorm:"size:255"`
	Amount     int64     // in satoshis
	PaymentID  string    `gorm:"uniqueIndex;size:64"` // originating invoice's payment hash
	PaidAt     time.Time `gorm:"index"`
}
