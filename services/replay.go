package services

import (
	"database/sql"
	"errors"
	"math/rand"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/LordOfNightmares/srvpro/models"
)

// GetCloudReplaysFromKey returns the ten most recent replays that seat
// a player with the given lookup key, players included.
func (dm *DataManager) GetCloudReplaysFromKey(key string) []models.CloudReplay {
	var replays []models.CloudReplay
	err := dm.db.
		Where("exists (select id from cloud_replay_players where cloud_replay_players.cloud_replay_id = cloud_replays.id and cloud_replay_players.key = ?)", key).
		Order("date DESC").
		Limit(10).
		Preload("Players").
		Find(&replays).Error
	if err != nil {
		dm.log.Warn("failed to load replays", "key", key, "error", err)
		return nil
	}
	return replays
}

// GetCloudReplayFromID returns one replay with its players, or nil when
// it does not exist.
func (dm *DataManager) GetCloudReplayFromID(id uint) *models.CloudReplay {
	var replay models.CloudReplay
	err := dm.db.Preload("Players").First(&replay, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			dm.log.Warn("failed to load replay", "id", id, "error", err)
		}
		return nil
	}
	return &replay
}

// GetRandomCloudReplay picks one stored replay at random without
// scanning the table: read the id bounds, draw a target inside them,
// and take the first replay at or past the target. Ids that follow a
// deletion gap are slightly favored, which is fine for leisure viewing.
func (dm *DataManager) GetRandomCloudReplay() *models.CloudReplay {
	type bound struct {
		value sql.NullInt64
		err   error
	}
	bounds := make([]bound, 2)
	var wg sync.WaitGroup
	for i, agg := range []string{"min(id)", "max(id)"} {
		wg.Add(1)
		go func(i int, agg string) {
			defer wg.Done()
			row := dm.db.Model(&models.CloudReplay{}).Select(agg).Row()
			bounds[i].err = row.Scan(&bounds[i].value)
		}(i, agg)
	}
	wg.Wait()
	for _, b := range bounds {
		if b.err != nil {
			dm.log.Warn("failed to load random replay", "error", b.err)
			return nil
		}
		if !b.value.Valid {
			return nil
		}
	}

	minID, maxID := bounds[0].value.Int64, bounds[1].value.Int64
	targetID := minID
	if maxID > minID {
		targetID = minID + rand.Int63n(maxID-minID)
	}

	var replays []models.CloudReplay
	err := dm.db.
		Where("id >= ?", targetID).
		Order("id ASC").
		Limit(4).
		Preload("Players").
		Find(&replays).Error
	if err != nil {
		dm.log.Warn("failed to load random replay", "error", err)
		return nil
	}
	if len(replays) == 0 {
		return nil
	}
	return &replays[0]
}

// SaveCloudReplay archives a capture under the caller-assigned id. The
// replay row and its player rows commit together or not at all.
func (dm *DataManager) SaveCloudReplay(id uint, buffer []byte, playerInfos []models.CloudReplayPlayerInfo) {
	replay := models.CloudReplay{
		ID:   id,
		Data: buffer,
		Date: time.Now(),
	}
	players := make([]models.CloudReplayPlayer, len(playerInfos))
	for i, info := range playerInfos {
		players[i] = models.CloudReplayPlayerFromInfo(info)
	}
	dm.atomically("save cloud replay", func(tx *gorm.DB) error {
		if err := tx.Create(&replay).Error; err != nil {
			return err
		}
		if len(players) == 0 {
			return nil
		}
		for i := range players {
			players[i].CloudReplayID = replay.ID
		}
		return tx.Create(&players).Error
	})
}
