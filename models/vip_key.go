package models

/*
 * 'VipKey' is a single-use redemption code. Type is the subscription
 * duration in days. Once used the key is frozen apart from the
 * reference to the redeeming user.
 */
type VipKey struct {
	ID     uint   `gorm:"primaryKey"`
	Key    string `gorm:"size:50;uniqueIndex;not null"`
	Type   int    `gorm:"default:30"`
	IsUsed int    `gorm:"default:0"`

	UsedByKey *string `gorm:"size:100;index"`
	UsedBy    *User   `gorm:"foreignKey:UsedByKey"`
}

// ToJSON is the listing projection handed to admin tooling.
func (k *VipKey) ToJSON() map[string]any {
	return map[string]any{
		"key":  k.Key,
		"type": k.Type,
	}
}
