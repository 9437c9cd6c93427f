package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LordOfNightmares/srvpro/models"
)

func TestIsVip(t *testing.T) {
	var user models.User
	assert.False(t, user.IsVip())

	future := time.Now().Add(time.Hour)
	user.VipExpireDate = &future
	assert.True(t, user.IsVip())

	past := time.Now().Add(-time.Hour)
	user.VipExpireDate = &past
	assert.False(t, user.IsVip())
}

func TestDeckEncodeDecode(t *testing.T) {
	deck := models.Deck{
		Main: []uint32{10000, 10001, 10002},
		Side: []uint32{20000, 20001},
	}
	decoded := models.DecodeDeck(deck.Encode())
	require.NotNil(t, decoded)
	assert.Equal(t, deck.Main, decoded.Main)
	assert.Equal(t, deck.Side, decoded.Side)

	empty := models.DecodeDeck(models.Deck{}.Encode())
	require.NotNil(t, empty)
	assert.Empty(t, empty.Main)
	assert.Empty(t, empty.Side)
}

func TestDecodeDeckRejectsMalformedBuffers(t *testing.T) {
	assert.Nil(t, models.DecodeDeck(nil))
	assert.Nil(t, models.DecodeDeck([]byte{1, 2}))
	// Count claims more codes than the buffer holds.
	assert.Nil(t, models.DecodeDeck([]byte{255, 0, 0, 0, 1, 0, 0, 0}))
	// Trailing garbage after the side run.
	buf := append(models.Deck{Main: []uint32{1}}.Encode(), 0xff)
	assert.Nil(t, models.DecodeDeck(buf))
}

func TestDuelLogViewJSON(t *testing.T) {
	duelLog := models.DuelLog{
		ID:             3,
		Name:           "duel#3",
		Time:           time.Date(2020, 5, 1, 12, 30, 0, 0, time.UTC),
		RoomID:         7,
		CloudReplayID:  42,
		ReplayFileName: "duel3.yrp",
		RoomMode:       1,
		DuelCount:      2,
		Players: []models.DuelLogPlayer{
			{RealName: "alice", IsFirst: true, Winner: true, Score: 1, LP: 4000, CardCount: 38},
			{RealName: "bob", Score: 0, LP: 0, CardCount: 35},
		},
	}

	view := duelLog.ViewJSON(models.TournamentModeSettings{})
	assert.Equal(t, "2020-05-01 12:30:00", view["time"])
	assert.Equal(t, "R#42", view["cloud_replay_id"])
	players := view["players"].([]map[string]any)
	require.Len(t, players, 2)
	assert.Equal(t, "alice", players[0]["name"])
	assert.Equal(t, 4000, players[0]["lp"])

	// Tournament mode hides match details unless asked not to.
	hidden := duelLog.ViewJSON(models.TournamentModeSettings{Enabled: true})
	players = hidden["players"].([]map[string]any)
	assert.NotContains(t, players[0], "lp")
	assert.Equal(t, true, players[0]["winner"])

	shown := duelLog.ViewJSON(models.TournamentModeSettings{Enabled: true, ShowInfo: true})
	players = shown["players"].([]map[string]any)
	assert.Equal(t, 4000, players[0]["lp"])
}

func TestVipKeyToJSON(t *testing.T) {
	key := models.VipKey{Key: "1111222233334444", Type: 30}
	assert.Equal(t, map[string]any{"key": "1111222233334444", "type": 30}, key.ToJSON())
}
