package memory

import (
	"sync"
	"testing"
)

func TestCredentialStoreInitialKeys(t *testing.T) {
	s := NewCredentialStore("g-initial", "y-initial")
	if s.GeminiKey() != "g-initial" {
		t.Fatalf("GeminiKey = %q", s.GeminiKey())
	}
	if s.YouTubeKey() != "y-initial" {
		t.Fatalf("YouTubeKey = %q", s.YouTubeKey())
	}
}

func TestCredentialStoreUpdate(t *testing.T) {
	s := NewCredentialStore("", "")

	updated := s.Update("g-new", "")
	if !updated["gemini"] {
		t.Fatal("gemini key not reported as updated")
	}
	if _, ok := updated["youtube"]; ok {
		t.Fatal("youtube reported as updated with empty input")
	}
	if s.GeminiKey() != "g-new" {
		t.Fatalf("GeminiKey = %q after update", s.GeminiKey())
	}
	if s.YouTubeKey() != "" {
		t.Fatalf("YouTubeKey = %q, want empty", s.YouTubeKey())
	}
}

func TestCredentialStoreEmptyUpdateKeepsKeys(t *testing.T) {
	s := NewCredentialStore("g", "y")
	updated := s.Update("", "")
	if len(updated) != 0 {
		t.Fatalf("updated = %v, want empty", updated)
	}
	if s.GeminiKey() != "g" || s.YouTubeKey() != "y" {
		t.Fatal("empty update replaced stored keys")
	}
}

func TestCredentialStoreConcurrentAccess(t *testing.T) {
	s := NewCredentialStore("g", "y")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Update("g2", "y2")
		}()
		go func() {
			defer wg.Done()
			_ = s.GeminiKey()
			_ = s.YouTubeKey()
		}()
	}
	wg.Wait()

	if s.GeminiKey() != "g2" || s.YouTubeKey() != "y2" {
		t.Fatal("updates lost under concurrency")
	}
}
