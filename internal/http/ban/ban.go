package ban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DailyBanLogKey = "ratelimit:banlog:daily"
	strikesPrefix  = "ratelimit:strikes:"
	bannedPrefix   = "ratelimit:banned:"
)

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

// Banner counts rate-limit strikes per client and bans a client once it
// reaches maxStrikes within the ban window.
type Banner struct {
	rdb        *redis.Client
	maxStrikes int
	duration   time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewBanner(rdb *redis.Client, maxStrikes int, duration time.Duration, log zerolog.Logger) *Banner {
	return &Banner{rdb: rdb, maxStrikes: maxStrikes, duration: duration, log: log, now: time.Now}
}

func (b *Banner) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := b.rdb.Exists(ctx, bannedPrefix+target).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordStrike adds a strike for target and reports whether it is now banned.
func (b *Banner) RecordStrike(ctx context.Context, target, route string) (bool, error) {
	key := strikesPrefix + target
	strikes, err := b.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if strikes == 1 {
		if err := b.rdb.Expire(ctx, key, b.duration).Err(); err != nil {
			return false, err
		}
	}
	if int(strikes) < b.maxStrikes {
		return false, nil
	}

	if err := b.rdb.Set(ctx, bannedPrefix+target, strikes, b.duration).Err(); err != nil {
		return false, err
	}
	if err := b.rdb.Del(ctx, key).Err(); err != nil {
		b.log.Error().Err(err).Str("target", target).Msg("failed to reset strikes")
	}

	b.log.Warn().Str("target", target).Str("route", route).Int64("strikes", strikes).
		Dur("duration", b.duration).Msg("client banned")
	b.logBanEvent(ctx, target, route, int(strikes))
	return true, nil
}

func (b *Banner) logBanEvent(ctx context.Context, target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    b.now(),
	}
	data, _ := json.Marshal(entry)
	if err := b.rdb.RPush(ctx, DailyBanLogKey, data).Err(); err != nil {
		b.log.Error().Err(err).Msg("failed to record ban event")
	}
}

type Summary struct {
	Total    int
	ByRoute  map[string]int
	ByTarget map[string]int
	Entries  []BanLogEntry
}

// SendDailyBanSummary drains the ban log and writes one summary entry to the log.
func (b *Banner) SendDailyBanSummary(ctx context.Context) (Summary, error) {
	s := Summary{ByRoute: map[string]int{}, ByTarget: map[string]int{}}

	// Read and clear in one MULTI so events pushed meanwhile wait for the next run.
	var read *redis.StringSliceCmd
	if _, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		read = pipe.LRange(ctx, DailyBanLogKey, 0, -1)
		pipe.Del(ctx, DailyBanLogKey)
		return nil
	}); err != nil && !errors.Is(err, redis.Nil) {
		return s, fmt.Errorf("drain ban log: %w", err)
	}
	entries := read.Val()
	if len(entries) == 0 {
		return s, nil
	}

	for _, item := range entries {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			s.Entries = append(s.Entries, entry)
			s.ByRoute[entry.Route]++
			s.ByTarget[entry.Target]++
		}
	}
	s.Total = len(s.Entries)
	sort.Slice(s.Entries, func(i, j int) bool { return s.Entries[i].Time.Before(s.Entries[j].Time) })

	b.log.Info().
		Int("total", s.Total).
		Interface("by_route", s.ByRoute).
		Interface("by_target", s.ByTarget).
		Msg("daily ban summary")
	return s, nil
}
