package models

/*
 * 'Ban' is a permanent ban record keyed by the (name, ip) pair. A second
 * insert for the same pair is a no-op, never an update.
 */
type Ban struct {
	Name string `gorm:"primaryKey;size:50;not null"`
	IP   string `gorm:"primaryKey;size:100;not null"`
}
