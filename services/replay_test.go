package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LordOfNightmares/srvpro/models"
)

func TestSaveCloudReplayWritesParentAndPlayers(t *testing.T) {
	dm, _ := newTestDataManager(t)

	dm.SaveCloudReplay(42, []byte{0xde, 0xad}, []models.CloudReplayPlayerInfo{
		{Name: "alice", Pos: 0, Key: "key-a"},
		{Name: "bob", Pos: 1, Key: "key-b"},
	})

	replay := dm.GetCloudReplayFromID(42)
	require.NotNil(t, replay)
	assert.Equal(t, []byte{0xde, 0xad}, replay.Data)
	require.Len(t, replay.Players, 2)
	assert.Equal(t, "alice", replay.Players[0].Name)
	assert.Equal(t, "key-b", replay.Players[1].Key)

	assert.Nil(t, dm.GetCloudReplayFromID(43))
}

func TestGetCloudReplaysFromKeyFiltersAndOrders(t *testing.T) {
	dm, _ := newTestDataManager(t)

	dm.SaveCloudReplay(1, []byte{1}, []models.CloudReplayPlayerInfo{{Name: "alice", Key: "key-a"}})
	dm.SaveCloudReplay(2, []byte{2}, []models.CloudReplayPlayerInfo{{Name: "bob", Key: "key-b"}})
	dm.SaveCloudReplay(3, []byte{3}, []models.CloudReplayPlayerInfo{
		{Name: "alice", Key: "key-a"},
		{Name: "bob", Key: "key-b"},
	})

	replays := dm.GetCloudReplaysFromKey("key-a")
	require.Len(t, replays, 2)
	for _, replay := range replays {
		assert.NotEmpty(t, replay.Players)
	}
	assert.Empty(t, dm.GetCloudReplaysFromKey("key-c"))
}

func TestGetRandomCloudReplayStaysInsideStoredIDs(t *testing.T) {
	dm, _ := newTestDataManager(t)

	// Sparse ids: deletions leave gaps, sampling must still land on a
	// stored replay every time.
	for _, id := range []uint{5, 9, 20} {
		dm.SaveCloudReplay(id, []byte{byte(id)}, []models.CloudReplayPlayerInfo{{Name: "p", Key: "k"}})
	}

	for i := 0; i < 50; i++ {
		replay := dm.GetRandomCloudReplay()
		require.NotNil(t, replay)
		assert.Contains(t, []uint{5, 9, 20}, replay.ID)
		assert.NotEmpty(t, replay.Players)
	}
}

func TestGetRandomCloudReplayEmptyTable(t *testing.T) {
	dm, warnings := newTestDataManager(t)

	assert.Nil(t, dm.GetRandomCloudReplay())
	assert.Zero(t, warnings.Len(), "an empty table is not a fault")
}
