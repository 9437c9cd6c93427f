package services

import (
	"errors"
	"math/rand"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LordOfNightmares/srvpro/models"
)

// VipKeyResult reports the outcome of a key redemption.
type VipKeyResult int

const (
	VipKeyInvalid  VipKeyResult = iota // key missing or already used, nothing changed
	VipKeyNewVip                       // user had no previous subscription
	VipKeyExtended                     // user's recorded subscription was extended
)

// GetVipKeys lists unused keys, optionally filtered by type, in their
// listing projection. keyType 0 means every type.
func (dm *DataManager) GetVipKeys(keyType int) []map[string]any {
	query := dm.db.Where("is_used = 0")
	if keyType != 0 {
		query = query.Where("type = ?", keyType)
	}
	var keys []models.VipKey
	if err := query.Find(&keys).Error; err != nil {
		dm.log.Warn("failed to fetch vip keys", "keyType", keyType, "error", err)
		return nil
	}
	views := make([]map[string]any, len(keys))
	for i := range keys {
		views[i] = keys[i].ToJSON()
	}
	return views
}

// GenerateVipKeys mints count fresh keys of the given type with random
// 16-digit numeric texts.
func (dm *DataManager) GenerateVipKeys(keyType, count int) bool {
	if count <= 0 {
		return true
	}
	keys := make([]models.VipKey, count)
	for i := range keys {
		keys[i] = models.VipKey{
			Key:  strconv.FormatInt(rand.Int63n(1e16), 10),
			Type: keyType,
		}
	}
	if err := dm.db.Create(&keys).Error; err != nil {
		dm.log.Warn("failed to generate vip keys", "keyType", keyType, "error", err)
		return false
	}
	return true
}

// UseVipKey redeems a key for the user, creating the user on first
// touch. The key flip, its redeemer reference and the new expiry commit
// together or not at all; an invalid or spent key changes nothing.
func (dm *DataManager) UseVipKey(userKey, vipKeyText string) VipKeyResult {
	user := dm.GetOrCreateUser(userKey)
	result := VipKeyInvalid
	dm.atomically("use vip key", func(tx *gorm.DB) error {
		query := tx.Where("vip_keys.key = ? and is_used = 0", vipKeyText)
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var vipKey models.VipKey
		err := query.First(&vipKey).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errRollback
		}
		if err != nil {
			return err
		}

		newExpiry, outcome := stackVipExpiry(user.VipExpireDate, vipKey.Type, time.Now())
		user.VipExpireDate = &newExpiry
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		vipKey.IsUsed = 1
		vipKey.UsedByKey = &user.Key
		if err := tx.Save(&vipKey).Error; err != nil {
			return err
		}
		result = outcome
		return nil
	})
	return result
}

// stackVipExpiry computes the expiry after redeeming a key worth days.
// Remaining time on a still-active subscription is kept and extended;
// an expired or absent subscription restarts from now. The outcome is
// keyed on whether any previous expiry was recorded.
func stackVipExpiry(previous *time.Time, days int, now time.Time) (time.Time, VipKeyResult) {
	result := VipKeyNewVip
	if previous != nil {
		result = VipKeyExtended
	}
	if previous != nil && now.Before(*previous) {
		return previous.AddDate(0, 0, days), result
	}
	return now.AddDate(0, 0, days), result
}

// OldVipInfo mirrors the legacy vip_info JSON structure.
type OldVipInfo struct {
	CDKeys  map[string][]string     `json:"cdkeys"`
	Players map[string]OldVipPlayer `json:"players"`
}

// OldVipPlayer is one legacy VIP entry, keyed by player name.
type OldVipPlayer struct {
	Password   string            `json:"password"`
	ExpireDate string            `json:"expire_date"`
	Victory    string            `json:"victory"`
	Words      string            `json:"words"`
	Dialogues  map[string]string `json:"dialogues"`
}

// MigrateFromOldVipInfo imports the legacy VIP file in one unit: the
// unredeemed key pool, then every player that is not already an active
// subscriber under the new scheme.
func (dm *DataManager) MigrateFromOldVipInfo(info OldVipInfo) {
	dm.atomically("migrate vip info", func(tx *gorm.DB) error {
		var newKeys []models.VipKey
		for keyTypeText, keyTexts := range info.CDKeys {
			keyType, err := strconv.Atoi(keyTypeText)
			if err != nil {
				continue
			}
			for _, keyText := range keyTexts {
				newKeys = append(newKeys, models.VipKey{Key: keyText, Type: keyType})
			}
		}
		if len(newKeys) > 0 {
			if err := tx.Create(&newKeys).Error; err != nil {
				return err
			}
		}

		for name, old := range info.Players {
			userKey := name + "$" + old.Password
			var user models.User
			err := tx.First(&user, "users.key = ?", userKey).Error
			if err == nil && user.IsVip() {
				continue
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				user = models.User{Key: userKey}
			} else if err != nil {
				return err
			}
			user.VipExpireDate = parseLegacyTime(old.ExpireDate)
			user.Victory = old.Victory
			user.Words = old.Words
			if err := tx.Save(&user).Error; err != nil {
				return err
			}

			var dialogues []models.UserDialog
			for codeText, text := range old.Dialogues {
				cardCode, err := strconv.Atoi(codeText)
				if err != nil {
					continue
				}
				dialogues = append(dialogues, models.UserDialog{
					UserKey:  user.Key,
					CardCode: cardCode,
					Text:     text,
				})
			}
			if len(dialogues) > 0 {
				if err := tx.Create(&dialogues).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Legacy expire_date values show up either as RFC3339 or in the old
// "2006-01-02 15:04:05" form.
func parseLegacyTime(s string) *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
