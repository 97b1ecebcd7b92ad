package dbmysql

import (
	"time"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
)

// FriendRequest is a directed request from SenderID to RecipientID. Rows are
// created pending, transition once to accepted, and are never deleted.
type FriendRequest struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    uint64 `gorm:"column:sender_id;not null;index" json:"sender_id"`
	RecipientID uint64 `gorm:"column:recipient_id;not null;index" json:"recipient_id"`

	// PairLow/PairHigh normalize the unordered {sender, recipient} pair. The
	// unique index limits each pair to one request row regardless of
	// direction, closing the concurrent-send race at the storage layer.
	PairLow  uint64 `gorm:"column:pair_low;not null;index:idx_request_pair,unique" json:"-"`
	PairHigh uint64 `gorm:"column:pair_high;not null;index:idx_request_pair,unique" json:"-"`

	Status      string     `gorm:"column:status;type:enum('pending','accepted');default:'pending'" json:"status"`
	RequestedAt time.Time  `gorm:"column:requested_at;autoCreateTime" json:"requested_at"`
	AcceptedAt  *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Populated by the service layer on listing calls, never persisted.
	Sender    *User `gorm:"-" json:"sender,omitempty"`
	Recipient *User `gorm:"-" json:"recipient,omitempty"`
}

// NormalizePair fills the pair columns from sender and recipient.
func (fr *FriendRequest) NormalizePair() {
	fr.PairLow, fr.PairHigh = PairKey(fr.SenderID, fr.RecipientID)
}

// PairKey returns the (low, high) form of an unordered user id pair.
func PairKey(a, b uint64) (uint64, uint64) {
	if a < b {
		return a, b
	}
	return b, a
}
