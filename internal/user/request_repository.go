package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"langlink/internal/common"
	"langlink/internal/dbmysql"
)

// FriendRequestRepository is the request ledger. It exclusively owns
// friend_requests rows; the unique pair index makes Create the authoritative
// guard against two outstanding requests for the same pair.
type FriendRequestRepository interface {
	Create(ctx context.Context, req *dbmysql.FriendRequest) error
	GetByID(ctx context.Context, requestID uint64) (*dbmysql.FriendRequest, error)

	// FindBetween returns the request between the two users in either
	// direction, or nil when none exists.
	FindBetween(ctx context.Context, userID, otherID uint64) (*dbmysql.FriendRequest, error)

	// MarkAccepted transitions pending -> accepted. Returns
	// common.ErrInvalidState when the row is no longer pending.
	MarkAccepted(ctx context.Context, req *dbmysql.FriendRequest) error

	ListIncoming(ctx context.Context, userID uint64, status string) ([]*dbmysql.FriendRequest, error)
	ListOutgoing(ctx context.Context, userID uint64, status string) ([]*dbmysql.FriendRequest, error)

	// ListInvolving returns requests where the user is sender or recipient.
	ListInvolving(ctx context.Context, userID uint64, status string) ([]*dbmysql.FriendRequest, error)
}

type friendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) Create(ctx context.Context, req *dbmysql.FriendRequest) error {
	req.Status = dbmysql.RequestStatusPending
	req.NormalizePair()
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *friendRequestRepository) GetByID(ctx context.Context, requestID uint64) (*dbmysql.FriendRequest, error) {
	var req dbmysql.FriendRequest
	err := r.db.WithContext(ctx).Where("id = ?", requestID).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRequestRepository) FindBetween(ctx context.Context, userID, otherID uint64) (*dbmysql.FriendRequest, error) {
	low, high := dbmysql.PairKey(userID, otherID)
	var req dbmysql.FriendRequest
	err := r.db.WithContext(ctx).
		Where("pair_low = ? AND pair_high = ?", low, high).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRequestRepository) MarkAccepted(ctx context.Context, req *dbmysql.FriendRequest) error {
	db := dbmysql.DBFromContext(ctx, r.db)
	now := time.Now()

	// guarded update: the status predicate defends against double-accept races
	res := db.WithContext(ctx).
		Model(&dbmysql.FriendRequest{}).
		Where("id = ? AND status = ?", req.ID, dbmysql.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      dbmysql.RequestStatusAccepted,
			"accepted_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrInvalidState
	}

	req.Status = dbmysql.RequestStatusAccepted
	req.AcceptedAt = &now
	return nil
}

func (r *friendRequestRepository) ListIncoming(ctx context.Context, userID uint64, status string) ([]*dbmysql.FriendRequest, error) {
	var requests []*dbmysql.FriendRequest
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", userID, status).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *friendRequestRepository) ListOutgoing(ctx context.Context, userID uint64, status string) ([]*dbmysql.FriendRequest, error) {
	var requests []*dbmysql.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", userID, status).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *friendRequestRepository) ListInvolving(ctx context.Context, userID uint64, status string) ([]*dbmysql.FriendRequest, error) {
	var requests []*dbmysql.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR recipient_id = ?) AND status = ?", userID, userID, status).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}
