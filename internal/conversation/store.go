// Package conversation holds the committed chat state: the transcript
// and the active property listing. Both are mutated only by the usecase
// layer and the sequencer, and every mutation is mirrored to the local
// cache as a side effect.
package conversation

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"righthome-agent/internal/cache"
	"righthome-agent/internal/domain"
)

// Store is the conversation state container. Transcript insertion order
// is chronological and never reordered; entries are never mutated after
// commit and only cleared in bulk by Reset.
type Store struct {
	mu    sync.RWMutex
	cache cache.Cache
	log   *zap.Logger

	transcript []domain.Message
	properties []domain.Property
}

// NewStore creates a Store backed by the given cache.
func NewStore(c cache.Cache, log *zap.Logger) (*Store, error) {
	if c == nil {
		return nil, errors.New("conversation: cache must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{cache: c, log: log}, nil
}

// Load restores the transcript and property list from the cache. A
// missing or unparsable value counts as a cache miss and leaves that
// part empty; it reports whether a transcript was restored so the caller
// knows to run the initial exchange.
func (s *Store) Load() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored := false
	if raw, err := s.cache.Load(cache.KeyChatHistory); err == nil {
		var transcript []domain.Message
		if jsonErr := json.Unmarshal(raw, &transcript); jsonErr == nil {
			s.transcript = transcript
			restored = len(transcript) > 0
		} else {
			s.log.Warn("discarding unparsable cached transcript", zap.Error(jsonErr))
		}
	}
	if raw, err := s.cache.Load(cache.KeyProperties); err == nil {
		var properties []domain.Property
		if jsonErr := json.Unmarshal(raw, &properties); jsonErr == nil {
			s.properties = properties
		} else {
			s.log.Warn("discarding unparsable cached properties", zap.Error(jsonErr))
		}
	}
	return restored
}

// Append commits a message to the transcript.
func (s *Store) Append(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, msg)
	s.persistTranscript()
}

// ReplaceProperties swaps the active property list wholesale. Listings
// are never merged incrementally.
func (s *Store) ReplaceProperties(props []domain.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = props
	s.persistProperties()
}

// Reset clears the transcript, the active properties, and every
// conversation-related cache key. The viewed-property key is included so
// a stale detail view cannot survive a new conversation.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	s.properties = nil
	for _, key := range []string{cache.KeyChatHistory, cache.KeyProperties, cache.KeyPropertyByID} {
		if err := s.cache.Clear(key); err != nil {
			s.log.Warn("clearing cache key failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Transcript returns a copy of the committed messages.
func (s *Store) Transcript() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Properties returns a copy of the active property list.
func (s *Store) Properties() []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Property, len(s.properties))
	copy(out, s.properties)
	return out
}

// History reduces the transcript to the outbound wire shape, options
// stripped.
func (s *Store) History() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChatMessage, 0, len(s.transcript))
	for _, msg := range s.transcript {
		out = append(out, msg.ToChatMessage())
	}
	return out
}

// Len returns the number of committed messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcript)
}

// LastOptionIndex returns the index of the most recently committed
// assistant message carrying options, or -1. Only that message's options
// get the entry animation; earlier option sets stay visible untouched.
func (s *Store) LastOptionIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].HasOptions() {
			return i
		}
	}
	return -1
}

// persistTranscript mirrors the transcript to the cache. Persistence is
// an observed side effect, not part of the mutation contract, so errors
// are logged and swallowed.
func (s *Store) persistTranscript() {
	if len(s.transcript) == 0 {
		return
	}
	raw, err := json.Marshal(s.transcript)
	if err != nil {
		s.log.Warn("marshaling transcript failed", zap.Error(err))
		return
	}
	if err := s.cache.Save(cache.KeyChatHistory, raw); err != nil {
		s.log.Warn("persisting transcript failed", zap.Error(err))
	}
}

func (s *Store) persistProperties() {
	if len(s.properties) == 0 {
		return
	}
	raw, err := json.Marshal(s.properties)
	if err != nil {
		s.log.Warn("marshaling properties failed", zap.Error(err))
		return
	}
	if err := s.cache.Save(cache.KeyProperties, raw); err != nil {
		s.log.Warn("persisting properties failed", zap.Error(err))
	}
}
