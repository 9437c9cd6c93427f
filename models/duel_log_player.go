package models

/*
 * 'DuelLogPlayer' is one seat of a logged match. The deck is stored
 * twice: the raw buffer the client handed over at match start, and the
 * encoded form of the deck in play when the log was written.
 */
type DuelLogPlayer struct {
	ID                uint   `gorm:"primaryKey"`
	DuelLogID         uint   `gorm:"index"`
	Name              string `gorm:"size:50"`
	RealName          string `gorm:"size:50;index:idx_duel_log_players_real_name"`
	StartDeckBuffer   []byte
	CurrentDeckBuffer []byte
	IsFirst           bool   `gorm:"default:false"`
	Winner            bool   `gorm:"default:false"`
	IP                string `gorm:"size:100"`
	Score             int    `gorm:"default:0"`
	LP                int    `gorm:"default:0"`
	CardCount         int    `gorm:"default:0"`
}

// DuelLogPlayerInfo is the caller-facing description of one seat at the
// moment the duel log is written.
type DuelLogPlayerInfo struct {
	Name            string
	Pos             int
	RealName        string
	StartDeckBuffer []byte
	Deck            Deck
	IsFirst         bool
	Winner          bool
	IP              string
	Score           int
	LP              int
	CardCount       int
}

func DuelLogPlayerFromInfo(info DuelLogPlayerInfo) DuelLogPlayer {
	return DuelLogPlayer{
		Name:              info.Name,
		RealName:          info.RealName,
		StartDeckBuffer:   info.StartDeckBuffer,
		CurrentDeckBuffer: info.Deck.Encode(),
		IsFirst:           info.IsFirst,
		Winner:            info.Winner,
		IP:                info.IP,
		Score:             info.Score,
		LP:                info.LP,
		CardCount:         info.CardCount,
	}
}
