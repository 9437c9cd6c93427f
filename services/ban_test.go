package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LordOfNightmares/srvpro/models"
)

func TestBanPlayerIsIdempotent(t *testing.T) {
	dm, _ := newTestDataManager(t)

	ban := dm.GetBan("cheater", "1.2.3.4")
	require.NotNil(t, dm.BanPlayer(ban))
	assert.Nil(t, dm.BanPlayer(dm.GetBan("cheater", "1.2.3.4")))

	var count int64
	require.NoError(t, dm.db.Model(&models.Ban{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.NotNil(t, dm.CheckBanWithNameAndIP("cheater", "1.2.3.4"))
	assert.Nil(t, dm.CheckBanWithNameAndIP("cheater", "4.3.2.1"))
	assert.NotNil(t, dm.CheckBan("ip", "1.2.3.4"))
	assert.Nil(t, dm.CheckBan("name", "somebody"))
}

func TestEscalationStartsWithoutDuration(t *testing.T) {
	now := time.Now()

	ban := escalateRandomDuelBan(nil, "1.2.3.4", "spam", 1, now)
	assert.Equal(t, 1, ban.Count)
	assert.Equal(t, now, ban.Time)
	assert.Equal(t, []string{"spam"}, []string(ban.Reasons))
	assert.Equal(t, 1, ban.NeedTip)

	// Offenses two and three stay free of duration.
	for _, wantCount := range []int{2, 3} {
		ban = escalateRandomDuelBan(ban, "1.2.3.4", "spam", 1, now)
		assert.Equal(t, wantCount, ban.Count)
		assert.Equal(t, now, ban.Time)
	}
}

func TestEscalationDoublesPastThirdOffense(t *testing.T) {
	now := time.Now()
	ban := &models.RandomDuelBan{IP: "1.2.3.4", Count: 3, Time: now.Add(-time.Hour)}

	// Fourth offense: expired anchor, so the four-minute window
	// restarts from now.
	ban = escalateRandomDuelBan(ban, "1.2.3.4", "afk", 1, now)
	assert.Equal(t, 4, ban.Count)
	assert.Equal(t, now.Add(4*time.Minute), ban.Time)

	// Fifth offense while still banned: 8 minutes stacked on the rest.
	ban = escalateRandomDuelBan(ban, "1.2.3.4", "afk", 1, now)
	assert.Equal(t, 5, ban.Count)
	assert.Equal(t, now.Add(12*time.Minute), ban.Time)

	// Sixth: 16 more minutes.
	ban = escalateRandomDuelBan(ban, "1.2.3.4", "afk", 1, now)
	assert.Equal(t, 6, ban.Count)
	assert.Equal(t, now.Add(28*time.Minute), ban.Time)
}

func TestEscalationAtExactExpiryInstant(t *testing.T) {
	now := time.Now()
	ban := &models.RandomDuelBan{IP: "1.2.3.4", Count: 3, Time: now}

	// At the exact expiry instant the two anchors coincide.
	ban = escalateRandomDuelBan(ban, "1.2.3.4", "afk", 1, now)
	assert.Equal(t, now.Add(4*time.Minute), ban.Time)
}

func TestEscalationDeduplicatesReasons(t *testing.T) {
	dm, _ := newTestDataManager(t)

	dm.RandomDuelBanPlayer("1.2.3.4", "spam", 0)
	dm.RandomDuelBanPlayer("1.2.3.4", "afk", 0)
	dm.RandomDuelBanPlayer("1.2.3.4", "spam", 0)

	ban := dm.GetRandomDuelBan("1.2.3.4")
	require.NotNil(t, ban)
	assert.Equal(t, 3, ban.Count)
	assert.Equal(t, []string{"spam", "afk"}, []string(ban.Reasons))
}

func TestRandomDuelBanCountMatchesOffenses(t *testing.T) {
	dm, _ := newTestDataManager(t)

	for i := 0; i < 5; i++ {
		require.NotNil(t, dm.RandomDuelBanPlayer("5.6.7.8", "spam", 1))
	}
	ban := dm.GetRandomDuelBan("5.6.7.8")
	require.NotNil(t, ban)
	assert.Equal(t, 5, ban.Count)
	assert.Equal(t, 1, ban.NeedTip)
	assert.True(t, ban.Time.After(time.Now()), "offenses past the third must carry a ban window")

	var count int64
	require.NoError(t, dm.db.Model(&models.RandomDuelBan{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateRandomDuelBanUpserts(t *testing.T) {
	dm, _ := newTestDataManager(t)

	ban := dm.RandomDuelBanPlayer("9.9.9.9", "spam", 1)
	require.NotNil(t, ban)

	ban.NeedTip = 0
	dm.UpdateRandomDuelBan(ban)

	stored := dm.GetRandomDuelBan("9.9.9.9")
	require.NotNil(t, stored)
	assert.Equal(t, 0, stored.NeedTip)
}
