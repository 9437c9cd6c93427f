package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/LordOfNightmares/srvpro/models"
)

// GetUser returns the user with dialogues and redeemed keys loaded, or
// nil when the key has never been stored.
func (dm *DataManager) GetUser(key string) *models.User {
	var user models.User
	err := dm.db.Preload("Dialogues").Preload("UsedKeys").First(&user, "users.key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			dm.log.Warn("failed to fetch user", "key", key, "error", err)
		}
		return nil
	}
	return &user
}

// GetOrCreateUser returns the stored user, lazily creating the record
// on first touch.
func (dm *DataManager) GetOrCreateUser(key string) *models.User {
	if user := dm.GetUser(key); user != nil {
		return user
	}
	return dm.SaveUser(&models.User{Key: key})
}

// SaveUser persists the user. On a storage fault the in-memory record
// is still handed back so callers keep a usable value.
func (dm *DataManager) SaveUser(user *models.User) *models.User {
	if err := dm.db.Save(user).Error; err != nil {
		dm.log.Warn("failed to save user", "key", user.Key, "error", err)
	}
	return user
}

// GetUserChatColor returns the user's chat color, or "" when unset.
func (dm *DataManager) GetUserChatColor(key string) string {
	if user := dm.GetUser(key); user != nil {
		return user.ChatColor
	}
	return ""
}

// SetUserChatColor stores the chat color, creating the user if needed.
func (dm *DataManager) SetUserChatColor(key, color string) *models.User {
	user := dm.GetOrCreateUser(key)
	user.ChatColor = color
	return dm.SaveUser(user)
}

// IsUserVip reports whether the key belongs to an active subscriber.
func (dm *DataManager) IsUserVip(key string) bool {
	if user := dm.GetUser(key); user != nil {
		return user.IsVip()
	}
	return false
}

// GetUserWords returns the user's custom words, or "" when unset.
func (dm *DataManager) GetUserWords(key string) string {
	if user := dm.GetUser(key); user != nil {
		return user.Words
	}
	return ""
}

// GetUserVictoryWords returns the victory phrase, or "" when unset.
func (dm *DataManager) GetUserVictoryWords(key string) string {
	if user := dm.GetUser(key); user != nil {
		return user.Victory
	}
	return ""
}

// SetUserWords stores the custom words, creating the user if needed.
func (dm *DataManager) SetUserWords(key, words string) *models.User {
	user := dm.GetOrCreateUser(key)
	user.Words = words
	return dm.SaveUser(user)
}

// SetUserVictoryWords stores the victory phrase, creating the user if
// needed.
func (dm *DataManager) SetUserVictoryWords(key, words string) *models.User {
	user := dm.GetOrCreateUser(key)
	user.Victory = words
	return dm.SaveUser(user)
}

// GetUserDialogueText returns the custom dialogue line for one card, or
// "" when none is stored.
func (dm *DataManager) GetUserDialogueText(key string, cardCode int) string {
	var dialogue models.UserDialog
	err := dm.db.Where("card_code = ? and user_key = ?", cardCode, key).First(&dialogue).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			dm.log.Warn("failed to find user dialogue", "key", key, "cardCode", cardCode, "error", err)
		}
		return ""
	}
	return dialogue.Text
}

// SetUserDialogues stores the dialogue line for one card, replacing any
// previous line for the same (user, card) pair.
func (dm *DataManager) SetUserDialogues(key string, cardCode int, text string) {
	user := dm.GetOrCreateUser(key)
	dm.atomically("save user dialogue", func(tx *gorm.DB) error {
		var dialogue models.UserDialog
		err := tx.Where("card_code = ? and user_key = ?", cardCode, key).First(&dialogue).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dialogue = models.UserDialog{UserKey: user.Key, CardCode: cardCode}
		} else if err != nil {
			return err
		}
		dialogue.Text = text
		return tx.Save(&dialogue).Error
	})
}

// RemoveUserDialogues deletes the dialogue line for one card.
func (dm *DataManager) RemoveUserDialogues(key string, cardCode int) bool {
	err := dm.db.Where("card_code = ? and user_key = ?", cardCode, key).Delete(&models.UserDialog{}).Error
	if err != nil {
		dm.log.Warn("failed to remove dialogue", "key", key, "cardCode", cardCode, "error", err)
		return false
	}
	return true
}

// MigrateChatColors imports a legacy key-to-color map in one unit,
// creating missing users along the way.
func (dm *DataManager) MigrateChatColors(data map[string]string) {
	dm.atomically("migrate chat colors", func(tx *gorm.DB) error {
		for key, chatColor := range data {
			var user models.User
			err := tx.First(&user, "users.key = ?", key).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				user = models.User{Key: key}
			} else if err != nil {
				return err
			}
			user.ChatColor = chatColor
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
