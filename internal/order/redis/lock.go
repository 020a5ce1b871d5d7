package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis serializes order completions per ticket and remembers which provider
// notifications have already been processed.
type Redis struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		Client: client,
		Logger: log.Default(),
	}
}

// getTicketLockDuration returns the completion lock TTL, overridable via env.
func (r *Redis) getTicketLockDuration() time.Duration {
	defaultDuration := 30 * time.Second

	lockTTLStr := os.Getenv("TICKET_LOCK_TTL_SECONDS")
	if lockTTLStr == "" {
		return defaultDuration
	}

	lockTTLSec, err := strconv.Atoi(lockTTLStr)
	if err != nil {
		r.Logger.Println("REDIS: Invalid TICKET_LOCK_TTL_SECONDS value '" + lockTTLStr + "', using default 30 seconds")
		return defaultDuration
	}
	return time.Duration(lockTTLSec) * time.Second
}

// LockTicket takes the per-ticket completion lock. The lock holder is the
// completing order, so a crashed completion releases by TTL expiry.
func (r *Redis) LockTicket(ticketID, orderID string) (bool, error) {
	key := "ticket_lock:" + ticketID
	ok, err := r.Client.SetNX(context.Background(), key, orderID, r.getTicketLockDuration()).Result()
	return ok, err
}

func (r *Redis) UnlockTicket(ticketID, orderID string) error {
	ctx := context.Background()
	key := "ticket_lock:" + ticketID
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released
	}
	if err != nil {
		return err
	}
	if val == orderID {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}

// MarkNotificationProcessed records a provider notification so replays are
// acknowledged without touching the order lifecycle again. Returns false when
// the same order/status pair was already seen.
func (r *Redis) MarkNotificationProcessed(orderID, status string) (bool, error) {
	key := fmt.Sprintf("notif:%s:%s", orderID, status)
	return r.Client.SetNX(context.Background(), key, time.Now().UTC().Format(time.RFC3339), time.Hour).Result()
}

// ClearNotification forgets a dedup marker so the provider's retry gets a
// fresh attempt after an internal failure.
func (r *Redis) ClearNotification(orderID, status string) error {
	key := fmt.Sprintf("notif:%s:%s", orderID, status)
	_, err := r.Client.Del(context.Background(), key).Result()
	return err
}
