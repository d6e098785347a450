package events

import (
	"time"

	"github.com/google/uuid"
)

const TopicKeyBound = "key.bound"

// KeyBound is emitted after a short key has been bound to a URL.
type KeyBound struct {
	ID      string    `json:"id"`
	Key     string    `json:"key"`
	URL     string    `json:"url"`
	BoundAt time.Time `json:"boundAt"`
}

// NewKeyBound creates a KeyBound event stamped with a fresh ID and the current time.
func NewKeyBound(key, url string) *KeyBound {
	return &KeyBound{
		ID:      uuid.NewString(),
		Key:     key,
		URL:     url,
		BoundAt: time.Now().UTC(),
	}
}
