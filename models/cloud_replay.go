package models

import (
	"time"
)

/*
 * 'CloudReplay' is an archived match capture. Its id is assigned by the
 * game server when the match ends, never by the database, so the column
 * carries no autoincrement. The player rows live and die with the replay.
 */
type CloudReplay struct {
	ID   uint `gorm:"primaryKey;autoIncrement:false"`
	Data []byte
	Date time.Time `gorm:"index"`

	// Relationship with the players recorded in the capture
	Players []CloudReplayPlayer `gorm:"foreignKey:CloudReplayID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

/*
 * 'CloudReplayPlayer' is one seat of an archived replay: the display
 * name, the seat position and the opaque key replays are looked up by.
 */
type CloudReplayPlayer struct {
	ID            uint   `gorm:"primaryKey"`
	CloudReplayID uint   `gorm:"index"`
	Name          string `gorm:"size:50"`
	Pos           int    `gorm:"default:0"`
	Key           string `gorm:"size:100;index:idx_cloud_replay_players_key"`
}

// CloudReplayPlayerInfo is the caller-facing description of one seat,
// as captured by the room when the replay is saved.
type CloudReplayPlayerInfo struct {
	Name string
	Pos  int
	Key  string
}

func CloudReplayPlayerFromInfo(info CloudReplayPlayerInfo) CloudReplayPlayer {
	return CloudReplayPlayer{
		Name: info.Name,
		Pos:  info.Pos,
		Key:  info.Key,
	}
}
