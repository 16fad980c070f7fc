package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sendDedupTTL = time.Hour

// SendDeduper suppresses repeat deliveries of the same quotation email
// within a TTL window. Key format: send:<quotation_id>:<kind>
type SendDeduper struct {
	client *redis.Client
}

// NewSendDeduper creates a SendDeduper wrapping the given Redis client.
func NewSendDeduper(client *redis.Client) *SendDeduper {
	return &SendDeduper{client: client}
}

// AlreadySent reports whether this notification went out within the window.
func (d *SendDeduper) AlreadySent(ctx context.Context, quotationID, kind string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(quotationID, kind)).Result()
	if err != nil {
		return false, fmt.Errorf("send dedup check: %w", err)
	}
	return n > 0, nil
}

// MarkSent records the delivery (expires after sendDedupTTL).
func (d *SendDeduper) MarkSent(ctx context.Context, quotationID, kind string, at time.Time) error {
	return d.client.Set(ctx, d.key(quotationID, kind), at.UTC().Format(time.RFC3339), sendDedupTTL).Err()
}

func (d *SendDeduper) key(quotationID, kind string) string {
	return fmt.Sprintf("send:%s:%s", quotationID, kind)
}
