package dbmysql

import (
	"time"
)

// Friendship is one direction of a symmetric friend edge. Both directions
// are written together in a single statement by the user repository's
// AddFriendEdge; no other code path writes this table, which is what keeps
// the relation symmetric.
type Friendship struct {
	UserID       uint64    `gorm:"primaryKey;column:user_id;autoIncrement:false" json:"user_id"`
	FriendUserID uint64    `gorm:"primaryKey;column:friend_user_id;autoIncrement:false" json:"friend_user_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
