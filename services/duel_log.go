package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LordOfNightmares/srvpro/models"
)

// GetAllDuelLogs returns every duel log with its players.
func (dm *DataManager) GetAllDuelLogs() []models.DuelLog {
	var duelLogs []models.DuelLog
	if err := dm.db.Preload("Players").Find(&duelLogs).Error; err != nil {
		dm.log.Warn("failed to fetch duel logs", "error", err)
		return nil
	}
	return duelLogs
}

// GetDuelLogFromID returns one duel log with its players, or nil.
func (dm *DataManager) GetDuelLogFromID(id uint) *models.DuelLog {
	var duelLog models.DuelLog
	err := dm.db.Preload("Players").First(&duelLog, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			dm.log.Warn("failed to fetch duel log", "id", id, "error", err)
		}
		return nil
	}
	return &duelLog
}

// GetDuelLogFromRecoverSearch returns the ten most recent duel logs
// that seat the given real identity with both deck snapshots present.
// Room mode 2 (tag duels) is not recoverable and stays excluded.
func (dm *DataManager) GetDuelLogFromRecoverSearch(realName string) []models.DuelLog {
	var duelLogs []models.DuelLog
	err := dm.db.
		Where("room_mode != 2 and exists (select id from duel_log_players where duel_log_players.duel_log_id = duel_logs.id and duel_log_players.real_name = ? and duel_log_players.start_deck_buffer is not null and duel_log_players.current_deck_buffer is not null)", realName).
		Order("id DESC").
		Limit(10).
		Preload("Players").
		Find(&duelLogs).Error
	if err != nil {
		dm.log.Warn("failed to fetch duel logs", "realName", realName, "error", err)
		return nil
	}
	return duelLogs
}

// GetDuelLogJSON projects every duel log for external display, passing
// the caller's tournament mode settings through to the projection.
func (dm *DataManager) GetDuelLogJSON(settings models.TournamentModeSettings) []map[string]any {
	duelLogs := dm.GetAllDuelLogs()
	views := make([]map[string]any, len(duelLogs))
	for i := range duelLogs {
		views[i] = duelLogs[i].ViewJSON(settings)
	}
	return views
}

// GetAllReplayFilenames lists the replay file of every duel log.
func (dm *DataManager) GetAllReplayFilenames() []string {
	duelLogs := dm.GetAllDuelLogs()
	filenames := make([]string, len(duelLogs))
	for i := range duelLogs {
		filenames[i] = duelLogs[i].ReplayFileName
	}
	return filenames
}

// ClearDuelLog wipes the duel log archive in one transaction. MySQL
// needs its foreign key checks toggled off around the bulk delete.
func (dm *DataManager) ClearDuelLog() {
	dm.atomically("clear duel logs", func(tx *gorm.DB) error {
		mysql := tx.Dialector.Name() == "mysql"
		if mysql {
			if err := tx.Exec("SET FOREIGN_KEY_CHECKS = 0").Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM duel_log_players").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM duel_logs").Error; err != nil {
			return err
		}
		if mysql {
			if err := tx.Exec("SET FOREIGN_KEY_CHECKS = 1").Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveDuelLog writes the match record and its player rows as one unit;
// a player row never exists without its parent.
func (dm *DataManager) SaveDuelLog(name string, roomID int, cloudReplayID uint, replayFileName string, roomMode, duelCount int, playerInfos []models.DuelLogPlayerInfo) {
	duelLog := models.DuelLog{
		Name:           name,
		Time:           time.Now(),
		RoomID:         roomID,
		CloudReplayID:  cloudReplayID,
		ReplayFileName: replayFileName,
		RoomMode:       roomMode,
		DuelCount:      duelCount,
	}
	players := make([]models.DuelLogPlayer, len(playerInfos))
	for i, info := range playerInfos {
		players[i] = models.DuelLogPlayerFromInfo(info)
	}
	dm.atomically("save duel log", func(tx *gorm.DB) error {
		if err := tx.Create(&duelLog).Error; err != nil {
			return err
		}
		if len(players) == 0 {
			return nil
		}
		for i := range players {
			players[i].DuelLogID = duelLog.ID
		}
		return tx.Create(&players).Error
	})
}
