package ban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DailyBanLogKey   = "ratelimit:banlog:daily"
	banKeyPrefix     = "ratelimit:ban:"
	strikesKeyPrefix = "ratelimit:strikes:"
)

// Tracker counts rate limit strikes per client in redis and bans a client
// once it reaches maxStrikes. A nil Tracker, or one without a redis client,
// never bans anybody.
type Tracker struct {
	rdb         *redis.Client
	maxStrikes  int
	banDuration time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

func NewTracker(rdb *redis.Client, maxStrikes int, banDuration time.Duration, log zerolog.Logger) *Tracker {
	return &Tracker{
		rdb:         rdb,
		maxStrikes:  maxStrikes,
		banDuration: banDuration,
		log:         log.With().Str("component", "ban").Logger(),
		now:         time.Now,
	}
}

func (t *Tracker) Enabled() bool {
	return t != nil && t.rdb != nil
}

func (t *Tracker) IsBanned(ctx context.Context, target string) (bool, error) {
	if !t.Enabled() {
		return false, nil
	}
	n, err := t.rdb.Exists(ctx, banKeyPrefix+target).Result()
	if err != nil {
		return false, fmt.Errorf("check ban for %s: %w", target, err)
	}
	return n > 0, nil
}

// Strike records one throttled request for target on route. It reports true
// when this strike bans the target.
func (t *Tracker) Strike(ctx context.Context, target, route string) (bool, error) {
	if !t.Enabled() {
		return false, nil
	}

	strikesKey := strikesKeyPrefix + target
	pipe := t.rdb.TxPipeline()
	incr := pipe.Incr(ctx, strikesKey)
	pipe.Expire(ctx, strikesKey, t.banDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("record strike for %s: %w", target, err)
	}

	strikes := int(incr.Val())
	if strikes < t.maxStrikes {
		return false, nil
	}

	if err := t.rdb.Set(ctx, banKeyPrefix+target, route, t.banDuration).Err(); err != nil {
		return false, fmt.Errorf("ban %s: %w", target, err)
	}
	if err := t.rdb.Del(ctx, strikesKey).Err(); err != nil {
		t.log.Warn().Err(err).Str("target", target).Msg("failed to reset strikes")
	}

	t.logBanEvent(ctx, target, route, strikes)
	return true, nil
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func (t *Tracker) logBanEvent(ctx context.Context, target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    t.now().UTC(),
	}

	t.log.Warn().
		Str("target", target).
		Str("route", route).
		Int("strikes", strikes).
		Dur("ban_duration", t.banDuration).
		Msg("client banned")

	data, err := json.Marshal(entry)
	if err != nil {
		t.log.Error().Err(err).Msg("failed to encode ban log entry")
		return
	}
	if err := t.rdb.RPush(ctx, DailyBanLogKey, data).Err(); err != nil {
		t.log.Error().Err(err).Msg("failed to append ban log entry")
	}
}

type Summary struct {
	Total    int
	ByRoute  map[string]int
	ByTarget map[string]int
	Entries  []BanLogEntry
}

// Summarize aggregates raw ban log entries. Entries that do not decode are
// skipped.
func Summarize(entries []string) Summary {
	s := Summary{
		ByRoute:  make(map[string]int),
		ByTarget: make(map[string]int),
	}
	for _, item := range entries {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		s.Entries = append(s.Entries, entry)
		s.ByRoute[entry.Route]++
		s.ByTarget[entry.Target]++
	}
	s.Total = len(s.Entries)
	return s
}

// DailySummary drains the ban log and aggregates it.
func (t *Tracker) DailySummary(ctx context.Context) (Summary, error) {
	if !t.Enabled() {
		return Summarize(nil), nil
	}

	pipe := t.rdb.TxPipeline()
	lrange := pipe.LRange(ctx, DailyBanLogKey, 0, -1)
	pipe.Del(ctx, DailyBanLogKey)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Summary{}, fmt.Errorf("read ban log: %w", err)
	}
	return Summarize(lrange.Val()), nil
}

func (t *Tracker) reportDailySummary(ctx context.Context) {
	s, err := t.DailySummary(ctx)
	if err != nil {
		t.log.Error().Err(err).Msg("failed to build daily ban summary")
		return
	}
	if s.Total == 0 {
		return
	}

	byRoute := zerolog.Dict()
	for route, n := range s.ByRoute {
		byRoute.Int(route, n)
	}
	byTarget := zerolog.Dict()
	for target, n := range s.ByTarget {
		byTarget.Int(target, n)
	}
	t.log.Info().
		Int("total_bans", s.Total).
		Dict("by_route", byRoute).
		Dict("by_target", byTarget).
		Msg("daily ban summary")
}

// nextSummaryAt is the next 23:59 in now's location.
func nextSummaryAt(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// StartDailySummary logs the ban summary every day at 23:59 until ctx is done.
func (t *Tracker) StartDailySummary(ctx context.Context) {
	if !t.Enabled() {
		return
	}
	for {
		timer := time.NewTimer(time.Until(nextSummaryAt(t.now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			t.reportDailySummary(ctx)
		}
	}
}
