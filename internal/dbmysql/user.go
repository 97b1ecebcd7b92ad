package dbmysql

import (
	"time"
)

type User struct {
	UserID           uint64    `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	FullName         string    `gorm:"column:full_name;size:100;not null" json:"full_name"`
	Email            string    `gorm:"column:email;uniqueIndex;size:255;not null" json:"email"`
	PasswordHash     string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Bio              string    `gorm:"column:bio;type:text" json:"bio"`
	ProfilePic       string    `gorm:"column:profile_pic;size:255" json:"profile_pic"`
	NativeLanguage   string    `gorm:"column:native_language;size:50" json:"native_language"`
	LearningLanguage string    `gorm:"column:learning_language;size:50" json:"learning_language"`
	Location         string    `gorm:"column:location;size:100" json:"location"`
	IsOnboarded      bool      `gorm:"column:is_onboarded;not null;default:0" json:"is_onboarded"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
