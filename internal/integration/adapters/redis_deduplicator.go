package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

const (
	dedupKeyPrefix  = "ingest:doc:"
	defaultDedupTTL = 30 * 24 * time.Hour
	// pendingMarker is stored while an ingestion holds the claim.
	pendingMarker = ""
)

// redisDeduplicator implements adapter.DocumentDeduplicator on redis SETNX.
type redisDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduplicator creates a new redis-backed document deduplicator.
func NewRedisDeduplicator(client *redis.Client, ttl time.Duration) adapter.DocumentDeduplicator {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &redisDeduplicator{
		client: client,
		ttl:    ttl,
	}
}

func dedupKey(hash string) string {
	return dedupKeyPrefix + hash
}

// Claim reserves the hash. A lost race returns the invoice id bound to it, if any.
func (d *redisDeduplicator) Claim(ctx context.Context, hash string) (bool, string, error) {
	ok, err := d.client.SetNX(ctx, dedupKey(hash), pendingMarker, d.ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("failed to claim document: %w", err)
	}
	if ok {
		return true, "", nil
	}

	existing, err := d.client.Get(ctx, dedupKey(hash)).Result()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; try once more.
		ok, err = d.client.SetNX(ctx, dedupKey(hash), pendingMarker, d.ttl).Result()
		if err != nil {
			return false, "", fmt.Errorf("failed to claim document: %w", err)
		}
		return ok, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to read document claim: %w", err)
	}
	return false, existing, nil
}

// Bind stores the invoice id under the claimed hash.
func (d *redisDeduplicator) Bind(ctx context.Context, hash, invoiceID string) error {
	if err := d.client.Set(ctx, dedupKey(hash), invoiceID, d.ttl).Err(); err != nil {
		return fmt.Errorf("failed to bind document claim: %w", err)
	}
	return nil
}

// Release deletes the claim so the document can be ingested again.
func (d *redisDeduplicator) Release(ctx context.Context, hash string) error {
	if err := d.client.Del(ctx, dedupKey(hash)).Err(); err != nil {
		return fmt.Errorf("failed to release document claim: %w", err)
	}
	return nil
}
