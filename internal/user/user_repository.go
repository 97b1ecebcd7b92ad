package user

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"langlink/internal/dbmysql"
)

// UserRepository is the user directory: identity lookups, candidate listing
// for recommendations, and friend-set membership. Friend edges are mutated
// only through AddFriendEdge.
type UserRepository interface {
	CreateUser(ctx context.Context, user *dbmysql.User) error
	GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
	GetUserByEmail(ctx context.Context, email string) (*dbmysql.User, error)
	UpdateUser(ctx context.Context, user *dbmysql.User) error
	ListByIDs(ctx context.Context, userIDs []uint64) ([]*dbmysql.User, error)

	// ListCandidates returns users whose id is neither excludeID nor in
	// excludeIDs, optionally restricted to onboarded profiles.
	ListCandidates(ctx context.Context, excludeID uint64, excludeIDs []uint64, onboardedOnly bool) ([]*dbmysql.User, error)

	FriendIDs(ctx context.Context, userID uint64) ([]uint64, error)
	ListFriends(ctx context.Context, userID uint64) ([]*dbmysql.User, error)
	AreFriends(ctx context.Context, userID, otherID uint64) (bool, error)

	// AddFriendEdge inserts both directions of the friendship atomically and
	// idempotently.
	AddFriendEdge(ctx context.Context, userID, otherID uint64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) ListByIDs(ctx context.Context, userIDs []uint64) ([]*dbmysql.User, error) {
	if len(userIDs) == 0 {
		return []*dbmysql.User{}, nil
	}
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&users).Error
	return users, err
}

func (r *userRepository) ListCandidates(ctx context.Context, excludeID uint64, excludeIDs []uint64, onboardedOnly bool) ([]*dbmysql.User, error) {
	query := r.db.WithContext(ctx).Where("user_id <> ?", excludeID)
	if len(excludeIDs) > 0 {
		query = query.Where("user_id NOT IN ?", excludeIDs)
	}
	if onboardedOnly {
		query = query.Where("is_onboarded = ?", true)
	}

	var users []*dbmysql.User
	err := query.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) FriendIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Friendship{}).
		Where("user_id = ?", userID).
		Pluck("friend_user_id", &ids).Error
	return ids, err
}

func (r *userRepository) ListFriends(ctx context.Context, userID uint64) ([]*dbmysql.User, error) {
	ids, err := r.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.ListByIDs(ctx, ids)
}

func (r *userRepository) AreFriends(ctx context.Context, userID, otherID uint64) (bool, error) {
	// edges are symmetric by construction, one direction suffices
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Friendship{}).
		Where("user_id = ? AND friend_user_id = ?", userID, otherID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) AddFriendEdge(ctx context.Context, userID, otherID uint64) error {
	db := dbmysql.DBFromContext(ctx, r.db)
	edges := []dbmysql.Friendship{
		{UserID: userID, FriendUserID: otherID},
		{UserID: otherID, FriendUserID: userID},
	}
	// single multi-row insert: both directions land or neither; re-adding an
	// existing edge is a no-op
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edges).Error
}
