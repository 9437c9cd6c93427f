package models

import (
	"time"
)

/*
 * 'User' holds per-player preferences and the VIP subscription state.
 * The key is supplied by the client and opaque to this layer; records
 * are created lazily the first time anything needs to be stored.
 */
type User struct {
	Key           string `gorm:"primaryKey;size:100;not null"`
	ChatColor     string `gorm:"size:20"`
	Words         string `gorm:"type:text"`
	Victory       string `gorm:"type:text"`
	VipExpireDate *time.Time

	// Relationships
	Dialogues []UserDialog `gorm:"foreignKey:UserKey;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UsedKeys  []VipKey     `gorm:"foreignKey:UsedByKey"`
}

// IsVip reports whether the user's subscription is still active.
func (u *User) IsVip() bool {
	return u.VipExpireDate != nil && time.Now().Before(*u.VipExpireDate)
}

/*
 * 'UserDialog' is one custom dialogue line, keyed by (user, card). A
 * second save for the same pair replaces the text in place.
 */
type UserDialog struct {
	UserKey  string `gorm:"primaryKey;size:100;not null"`
	CardCode int    `gorm:"primaryKey;autoIncrement:false"`
	Text     string `gorm:"type:text"`
}
