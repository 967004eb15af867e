package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/topiclens/topiclens/adapters/clock"
	"github.com/topiclens/topiclens/domain/provider"
)

func newTestLedger(limit int64) (*Ledger, *clock.Fake) {
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewLedger(map[string]int64{provider.Gemini: limit}, clk), clk
}

func TestCheckAndReserve(t *testing.T) {
	l, _ := newTestLedger(3)

	for i := 0; i < 3; i++ {
		if !l.CheckAndReserve(provider.Gemini, 1) {
			t.Fatalf("reservation %d refused under the limit", i+1)
		}
	}
	if l.CheckAndReserve(provider.Gemini, 1) {
		t.Fatal("reservation allowed past the limit")
	}
	if got := l.Snapshot()[provider.Gemini].Used; got != 3 {
		t.Fatalf("used = %d, want 3", got)
	}
}

func TestCheckAndReserveUnknownProvider(t *testing.T) {
	l, _ := newTestLedger(10)
	if l.CheckAndReserve("mystery", 1) {
		t.Fatal("unknown provider accepted")
	}
}

func TestReleaseReturnsUnits(t *testing.T) {
	l, _ := newTestLedger(10)
	l.CheckAndReserve(provider.Gemini, 5)
	l.Release(provider.Gemini, 3)

	if got := l.Snapshot()[provider.Gemini].Used; got != 2 {
		t.Fatalf("used = %d, want 2", got)
	}

	// Floors at zero.
	l.Release(provider.Gemini, 100)
	if got := l.Snapshot()[provider.Gemini].Used; got != 0 {
		t.Fatalf("used = %d after over-release, want 0", got)
	}
}

func TestRecordUsageSaturates(t *testing.T) {
	l, _ := newTestLedger(50)
	l.RecordUsage(provider.Gemini, 40)
	l.RecordUsage(provider.Gemini, 40)

	if got := l.Snapshot()[provider.Gemini].Used; got != 50 {
		t.Fatalf("used = %d, want saturation at 50", got)
	}
}

func TestConcurrentReservationsNeverOvershoot(t *testing.T) {
	l, _ := newTestLedger(50)

	var wg sync.WaitGroup
	granted := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.CheckAndReserve(provider.Gemini, 1) {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	var n int
	for range granted {
		n++
	}
	if n != 50 {
		t.Fatalf("granted %d reservations with limit 50", n)
	}
	if got := l.Snapshot()[provider.Gemini].Used; got != 50 {
		t.Fatalf("used = %d, want exactly 50", got)
	}
}

func TestConcurrentRecordUsageSaturates(t *testing.T) {
	l, _ := newTestLedger(50)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.RecordUsage(provider.Gemini, 1)
		}()
	}
	wg.Wait()

	if got := l.Snapshot()[provider.Gemini].Used; got != 50 {
		t.Fatalf("used = %d, want exactly 50", got)
	}
}

func TestDailyRollover(t *testing.T) {
	l, clk := newTestLedger(10)
	l.RecordUsage(provider.Gemini, 10)

	if l.CheckAndReserve(provider.Gemini, 1) {
		t.Fatal("reservation allowed at the limit")
	}

	clk.Advance(24 * time.Hour)
	if !l.CheckAndReserve(provider.Gemini, 1) {
		t.Fatal("reservation refused after day rollover")
	}
	if got := l.Snapshot()[provider.Gemini].Used; got != 1 {
		t.Fatalf("used = %d after rollover, want 1", got)
	}
}

func TestSnapshotAppliesRollover(t *testing.T) {
	l, clk := newTestLedger(10)
	l.RecordUsage(provider.Gemini, 7)

	clk.Advance(25 * time.Hour)
	if got := l.Snapshot()[provider.Gemini].Used; got != 0 {
		t.Fatalf("snapshot used = %d after day change, want 0", got)
	}
}

func TestClear(t *testing.T) {
	l, _ := newTestLedger(10)
	l.RecordUsage(provider.Gemini, 5)
	l.Clear()
	if got := l.Snapshot()[provider.Gemini].Used; got != 0 {
		t.Fatalf("used = %d after Clear, want 0", got)
	}
}
