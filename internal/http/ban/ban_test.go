package ban

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	entries := []string{
		`{"target":"10.0.0.1","route":"/baked_goods","strikes":5,"time":"2024-01-01T10:00:00Z"}`,
		`{"target":"10.0.0.1","route":"/bakeries","strikes":5,"time":"2024-01-01T11:00:00Z"}`,
		`not json`,
		`{"target":"10.0.0.2","route":"/baked_goods","strikes":6,"time":"2024-01-01T12:00:00Z"}`,
	}

	s := Summarize(entries)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, map[string]int{"/baked_goods": 2, "/bakeries": 1}, s.ByRoute)
	assert.Equal(t, map[string]int{"10.0.0.1": 2, "10.0.0.2": 1}, s.ByTarget)
	require.Len(t, s.Entries, 3)
	assert.Equal(t, 6, s.Entries[2].Strikes)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.ByRoute)
}

func TestNextSummaryAt(t *testing.T) {
	morning := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), nextSummaryAt(morning))

	late := time.Date(2024, 3, 10, 23, 59, 30, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 23, 59, 0, 0, time.UTC), nextSummaryAt(late))
}

func TestDisabledTrackerNeverBans(t *testing.T) {
	ctx := context.Background()
	trackers := map[string]*Tracker{
		"nil":      nil,
		"no redis": NewTracker(nil, 1, time.Minute, zerolog.Nop()),
	}
	for name, tr := range trackers {
		t.Run(name, func(t *testing.T) {
			assert.False(t, tr.Enabled())

			banned, err := tr.Strike(ctx, "10.0.0.1", "/")
			require.NoError(t, err)
			assert.False(t, banned)

			banned, err = tr.IsBanned(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.False(t, banned)

			s, err := tr.DailySummary(ctx)
			require.NoError(t, err)
			assert.Zero(t, s.Total)
		})
	}
}

// Needs a disposable redis, e.g. BAKERY_TEST_REDIS_ADDR=localhost:6379.
func TestStrikesLeadToBan(t *testing.T) {
	addr := os.Getenv("BAKERY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BAKERY_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())

	target := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		rdb.Del(ctx, banKeyPrefix+target, strikesKeyPrefix+target, DailyBanLogKey)
	})

	tr := NewTracker(rdb, 3, time.Minute, zerolog.Nop())
	for i := 1; i < 3; i++ {
		banned, err := tr.Strike(ctx, target, "/baked_goods")
		require.NoError(t, err)
		assert.False(t, banned, "strike %d", i)
	}

	banned, err := tr.Strike(ctx, target, "/baked_goods")
	require.NoError(t, err)
	assert.True(t, banned)

	banned, err = tr.IsBanned(ctx, target)
	require.NoError(t, err)
	assert.True(t, banned)

	s, err := tr.DailySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ByTarget[target])
}
