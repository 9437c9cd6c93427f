package models

import (
	"fmt"
	"time"
)

/*
 * 'DuelLog' is the structured record of one logged match: outcome,
 * room, and a pointer to the replay capture. It owns its player rows.
 */
type DuelLog struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:100"`
	Time           time.Time
	RoomID         int    `gorm:"default:0"`
	CloudReplayID  uint   `gorm:"default:0"`
	ReplayFileName string `gorm:"size:256"`
	RoomMode       int    `gorm:"default:0"`
	DuelCount      int    `gorm:"default:0"`

	// Relationship with the per-seat records of the match
	Players []DuelLogPlayer `gorm:"foreignKey:DuelLogID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// TournamentModeSettings is supplied by the caller and handed through
// to the projection untouched; this layer only reads ShowInfo.
type TournamentModeSettings struct {
	Enabled  bool `json:"enabled"`
	ShowInfo bool `json:"show_info"`
}

// ViewJSON projects the duel log for external display. Score, LP and
// card details stay hidden while a tournament is running unless the
// settings ask for them.
func (d *DuelLog) ViewJSON(settings TournamentModeSettings) map[string]any {
	showInfo := !settings.Enabled || settings.ShowInfo
	players := make([]map[string]any, 0, len(d.Players))
	for _, p := range d.Players {
		entry := map[string]any{
			"name":    p.RealName,
			"isFirst": p.IsFirst,
			"winner":  p.Winner,
		}
		if showInfo {
			entry["score"] = p.Score
			entry["lp"] = p.LP
			entry["cardCount"] = p.CardCount
		}
		players = append(players, entry)
	}
	return map[string]any{
		"id":              d.ID,
		"time":            d.Time.Format("2006-01-02 15:04:05"),
		"name":            d.Name,
		"roomid":          d.RoomID,
		"cloud_replay_id": fmt.Sprintf("R#%d", d.CloudReplayID),
		"replay_filename": d.ReplayFileName,
		"roommode":        d.RoomMode,
		"duel_count":      d.DuelCount,
		"players":         players,
	}
}
