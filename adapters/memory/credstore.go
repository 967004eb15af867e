package memory

import (
	"sync"

	"github.com/topiclens/topiclens/ports"
)

// CredentialStore is an in-memory implementation of ports.CredentialStore.
// Keys are seeded from the environment at startup and may be replaced at
// runtime through the update-keys endpoint.
type CredentialStore struct {
	mu         sync.RWMutex
	geminiKey  string
	youtubeKey string
}

// NewCredentialStore creates a credential store with the given initial
// keys. Either key may be empty; empty keys select demo mode.
func NewCredentialStore(geminiKey, youtubeKey string) *CredentialStore {
	return &CredentialStore{
		geminiKey:  geminiKey,
		youtubeKey: youtubeKey,
	}
}

// GeminiKey returns the current AI provider credential.
func (s *CredentialStore) GeminiKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.geminiKey
}

// YouTubeKey returns the current video provider credential.
func (s *CredentialStore) YouTubeKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.youtubeKey
}

// Update replaces any non-empty keys and reports which were changed.
func (s *CredentialStore) Update(geminiKey, youtubeKey string) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make(map[string]bool)
	if geminiKey != "" {
		s.geminiKey = geminiKey
		updated["gemini"] = true
	}
	if youtubeKey != "" {
		s.youtubeKey = youtubeKey
		updated["youtube"] = true
	}
	return updated
}

// Ensure interface compliance.
var _ ports.CredentialStore = (*CredentialStore)(nil)
