package services

import (
	"errors"
	"math"
	"slices"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LordOfNightmares/srvpro/models"
)

// CheckBan looks a ban up by a single column ("name" or "ip").
func (dm *DataManager) CheckBan(field, value string) *models.Ban {
	var ban models.Ban
	err := dm.db.Where(map[string]any{field: value}).First(&ban).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			dm.log.Warn("failed to load ban", "field", field, "value", value, "error", err)
		}
		return nil
	}
	return &ban
}

// CheckBanWithNameAndIP looks a ban up by its full (name, ip) identity.
func (dm *DataManager) CheckBanWithNameAndIP(name, ip string) *models.Ban {
	var ban models.Ban
	err := dm.db.Where("name = ? and ip = ?", name, ip).First(&ban).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			dm.log.Warn("failed to load ban", "name", name, "ip", ip, "error", err)
		}
		return nil
	}
	return &ban
}

// GetBan builds a detached ban record for the caller to fill in before
// handing it to BanPlayer.
func (dm *DataManager) GetBan(name, ip string) *models.Ban {
	return &models.Ban{Name: name, IP: ip}
}

// BanPlayer inserts the ban unless the (name, ip) pair is already
// present; the duplicate insert is a silent no-op.
func (dm *DataManager) BanPlayer(ban *models.Ban) *models.Ban {
	var existing models.Ban
	err := dm.db.Where("name = ? and ip = ?", ban.Name, ban.IP).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		dm.log.Warn("failed to update ban", "name", ban.Name, "ip", ban.IP, "error", err)
		return nil
	}
	if err := dm.db.Create(ban).Error; err != nil {
		dm.log.Warn("failed to update ban", "name", ban.Name, "ip", ban.IP, "error", err)
		return nil
	}
	return ban
}

// GetRandomDuelBan returns the penalty record for an IP, or nil.
func (dm *DataManager) GetRandomDuelBan(ip string) *models.RandomDuelBan {
	var ban models.RandomDuelBan
	err := dm.db.First(&ban, "ip = ?", ip).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			dm.log.Warn("failed to fetch random duel ban", "ip", ip, "error", err)
		}
		return nil
	}
	return &ban
}

// UpdateRandomDuelBan persists a penalty record as an upsert.
func (dm *DataManager) UpdateRandomDuelBan(ban *models.RandomDuelBan) {
	err := dm.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(ban).Error
	if err != nil {
		dm.log.Warn("failed to update random duel ban", "ip", ban.IP, "error", err)
	}
}

// RandomDuelBanPlayer registers one offense for the IP and persists the
// escalated penalty record. countAdd defaults to 1.
func (dm *DataManager) RandomDuelBanPlayer(ip, reason string, countAdd int) *models.RandomDuelBan {
	count := countAdd
	if count <= 0 {
		count = 1
	}
	ban := escalateRandomDuelBan(dm.GetRandomDuelBan(ip), ip, reason, count, time.Now())
	err := dm.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(ban).Error
	if err != nil {
		dm.log.Warn("failed to update random duel ban", "ip", ip, "error", err)
		return nil
	}
	return ban
}

// escalateRandomDuelBan applies one offense on top of the existing
// penalty record, or starts a fresh one. The first three offenses carry
// no duration; past that the penalty doubles per offense. An offense
// during a still-active ban extends the remaining window, an offense
// after expiry restarts from now.
func escalateRandomDuelBan(ban *models.RandomDuelBan, ip, reason string, count int, now time.Time) *models.RandomDuelBan {
	if ban == nil {
		return &models.RandomDuelBan{
			IP:      ip,
			Time:    now,
			Count:   count,
			Reasons: datatypes.NewJSONSlice([]string{reason}),
			NeedTip: 1,
		}
	}
	ban.Count += count
	var penalty time.Duration
	if ban.Count > 3 {
		penalty = time.Duration(math.Pow(2, float64(ban.Count-3))*2) * time.Minute
	}
	if now.After(ban.Time) {
		ban.Time = now.Add(penalty)
	} else {
		ban.Time = ban.Time.Add(penalty)
	}
	if !slices.Contains(ban.Reasons, reason) {
		ban.Reasons = append(ban.Reasons, reason)
	}
	ban.NeedTip = 1
	return ban
}
