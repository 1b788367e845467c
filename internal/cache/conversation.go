// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// conversation.go keeps AI coach conversations in Valkey. Each
// conversation is an opaque blob under its own key; the TTL is refreshed
// on every write so idle conversations expire on their own.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// conversationKeyPrefix is the Valkey key prefix for coach conversations.
	conversationKeyPrefix = "coach:conv:"

	// DefaultConversationTTL is how long an idle conversation is kept.
	DefaultConversationTTL = 30 * time.Minute
)

// ConversationCache stores serialized coach conversations in Valkey.
type ConversationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConversationCache creates a conversation cache backed by the given
// Valkey client. A zero ttl selects DefaultConversationTTL.
func NewConversationCache(client *redis.Client, ttl time.Duration) *ConversationCache {
	if ttl == 0 {
		ttl = DefaultConversationTTL
	}
	return &ConversationCache{client: client, ttl: ttl}
}

// Get returns the stored conversation. ok is false on a miss.
func (c *ConversationCache) Get(ctx context.Context, id string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, conversationKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("conversation get: %w", err)
	}
	return val, true, nil
}

// Set stores a conversation and resets its TTL.
func (c *ConversationCache) Set(ctx context.Context, id string, data []byte) error {
	if err := c.client.Set(ctx, conversationKeyPrefix+id, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("conversation set: %w", err)
	}
	return nil
}

// Delete removes a single conversation.
func (c *ConversationCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, conversationKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("conversation delete: %w", err)
	}
	slog.Debug("coach conversation deleted", "id", id)
	return nil
}

// DeleteAll removes every stored conversation by scanning for the prefix.
// Used when the coach's model or prompt changes and old history no longer
// applies.
func (c *ConversationCache) DeleteAll(ctx context.Context) (int, error) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, conversationKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("conversation scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("conversation bulk delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("coach conversations cleared", "deleted", deleted)
	}
	return deleted, nil
}
