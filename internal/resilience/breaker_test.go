package resilience

import (
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("github API 502: bad gateway")

func tripBreaker(b *Breaker, failures int) {
	for i := 0; i < failures; i++ {
		_ = b.Execute(func() error { return errUpstream })
	}
}

func TestBreakerPassesThroughWhileClosed(t *testing.T) {
	b := NewBreaker(5, 30*time.Second)

	calls := 0
	for i := 0; i < 4; i++ {
		err := b.Execute(func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	if calls != 4 {
		t.Fatalf("executed %d calls, want 4", calls)
	}
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := NewBreaker(3, 30*time.Second)
	tripBreaker(b, 3)

	err := b.Execute(func() error {
		t.Fatal("call executed while circuit open")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerErrorIsPropagatedBeforeOpening(t *testing.T) {
	b := NewBreaker(3, 30*time.Second)

	err := b.Execute(func() error { return errUpstream })
	if !errors.Is(err, errUpstream) {
		t.Fatalf("err = %v, want the upstream error", err)
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	now := time.Now()
	b := NewBreaker(2, 30*time.Second)
	b.now = func() time.Time { return now }

	tripBreaker(b, 2)
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("circuit not open after threshold: %v", err)
	}

	now = now.Add(31 * time.Second)

	// Half-open probe succeeds and closes the circuit again.
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("circuit did not close after probe success: %v", err)
	}
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	now := time.Now()
	b := NewBreaker(2, 30*time.Second)
	b.now = func() time.Time { return now }

	tripBreaker(b, 2)
	now = now.Add(31 * time.Second)

	// Probe fails: the circuit opens again immediately.
	_ = b.Execute(func() error { return errUpstream })
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("circuit not reopened after failed probe: %v", err)
	}
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := NewBreaker(3, 30*time.Second)

	tripBreaker(b, 2)
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("success call failed: %v", err)
	}

	// Two fresh failures stay under the threshold.
	tripBreaker(b, 2)
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("circuit tripped early: %v", err)
	}
}
