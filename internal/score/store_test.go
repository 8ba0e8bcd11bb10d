package score

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilStoreIsNoop(t *testing.T) {
	var s *Store

	require.NoError(t, s.Record("a1b2c3d4e5f6", 7))

	got, err := s.Get("a1b2c3d4e5f6")
	require.NoError(t, err)
	assert.Zero(t, got)
}

// TestRecordKeepsMaximum needs a live database; set SCORE_TEST_DATABASE_URL
// to run it.
func TestRecordKeepsMaximum(t *testing.T) {
	dsn := os.Getenv("SCORE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SCORE_TEST_DATABASE_URL not set")
	}

	s, err := Open(dsn)
	require.NoError(t, err)

	const player = "test00000001"
	require.NoError(t, s.db.Delete(&BestScore{}, "player_id = ?", player).Error)

	require.NoError(t, s.Record(player, 3))
	require.NoError(t, s.Record(player, 1))

	got, err := s.Get(player)
	require.NoError(t, err)
	assert.Equal(t, 3, got, "lower report must not overwrite the best")

	require.NoError(t, s.Record(player, 5))
	got, err = s.Get(player)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}
