package models

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'RandomDuelBan' is the escalating matchmaking penalty for one IP.
 * Count only ever grows; Time is the next moment the IP may queue
 * again. Reasons is a deduplicated set, not a log.
 */
type RandomDuelBan struct {
	IP      string `gorm:"primaryKey;size:100;not null"`
	Time    time.Time
	Count   int `gorm:"default:0"`
	Reasons datatypes.JSONSlice[string]
	NeedTip int `gorm:"default:0"`
}
