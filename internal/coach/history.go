package coach

import (
	"context"
	"encoding/json"
	"fmt"

	"diabolohub/internal/locale"
)

// MaxTurns is how many turns of a conversation are kept and sent back to
// the model. Older turns are dropped in pairs.
const MaxTurns = 40

// Conversation is the stored state of one caller's chat with the coach.
// Its language is fixed; a message in another language starts over.
type Conversation struct {
	Lang  locale.Language `json:"lang"`
	Turns []Turn          `json:"turns"`
}

// appendExchange adds a user message and the model's answer, trimming the
// oldest turns beyond MaxTurns.
func (c *Conversation) appendExchange(message, answer string) {
	c.Turns = append(c.Turns, Turn{Role: RoleUser, Text: message}, Turn{Role: RoleModel, Text: answer})
	if extra := len(c.Turns) - MaxTurns; extra > 0 {
		c.Turns = append([]Turn(nil), c.Turns[extra:]...)
	}
}

// History persists conversations between requests. Load returns a zero
// Conversation when none is stored.
type History interface {
	Load(ctx context.Context, id string) (Conversation, error)
	Save(ctx context.Context, id string, c Conversation) error
}

// BlobCache is the byte-level store behind CacheHistory; it is satisfied by
// cache.ConversationCache.
type BlobCache interface {
	Get(ctx context.Context, id string) ([]byte, bool, error)
	Set(ctx context.Context, id string, data []byte) error
}

// CacheHistory stores conversations as JSON in a BlobCache (Valkey).
type CacheHistory struct {
	cache BlobCache
}

// NewCacheHistory wraps a BlobCache.
func NewCacheHistory(c BlobCache) *CacheHistory {
	return &CacheHistory{cache: c}
}

func (h *CacheHistory) Load(ctx context.Context, id string) (Conversation, error) {
	data, ok, err := h.cache.Get(ctx, id)
	if err != nil || !ok {
		return Conversation{}, err
	}
	var c Conversation
	if err := json.Unmarshal(data, &c); err != nil {
		return Conversation{}, fmt.Errorf("decode conversation: %w", err)
	}
	return c, nil
}

func (h *CacheHistory) Save(ctx context.Context, id string, c Conversation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	return h.cache.Set(ctx, id, data)
}
