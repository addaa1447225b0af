package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ateliersoft/studio-scheduler/internal/config"
	"github.com/ateliersoft/studio-scheduler/internal/domain/schedule"
)

const scheduleTTL = 5 * time.Minute

// ScheduleCache stores resolved day schedules. A miss or a redis error
// is never fatal: list paths fall back to resolving from the database.
type ScheduleCache struct {
	rdb *redis.Client
}

func NewScheduleCache(cfg *config.Config) *ScheduleCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	return &ScheduleCache{rdb: rdb}
}

func key(businessID uint, date string, filterTag string) string {
	return fmt.Sprintf("schedule:%d:%s:%s", businessID, date, filterTag)
}

func (c *ScheduleCache) Get(
	ctx context.Context,
	businessID uint,
	date string,
	filterTag string,
) ([]schedule.Resolved, bool) {

	b, err := c.rdb.Get(ctx, key(businessID, date, filterTag)).Bytes()
	if err != nil {
		return nil, false
	}

	var entries []schedule.Resolved
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, false
	}

	return entries, true
}

func (c *ScheduleCache) Set(
	ctx context.Context,
	businessID uint,
	date string,
	filterTag string,
	entries []schedule.Resolved,
) {

	b, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key(businessID, date, filterTag), b, scheduleTTL).Err(); err != nil {
		log.Println("schedule cache set failed:", err)
	}
}

// Invalidate drops every cached day for the business. Called after any
// appointment write; a recurring edit can change arbitrarily many days.
func (c *ScheduleCache) Invalidate(ctx context.Context, businessID uint) {
	pattern := fmt.Sprintf("schedule:%d:*", businessID)

	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Println("schedule cache invalidate failed:", err)
			return
		}
	}
	if err := iter.Err(); err != nil {
		log.Println("schedule cache scan failed:", err)
	}
}
