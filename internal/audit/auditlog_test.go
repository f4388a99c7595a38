package audit

import (
	"sync"
	"testing"
)

func TestAppendVerify(t *testing.T) {
	l := New()
	l.Append("register alice@example.com")
	l.Appendf("login %s", "alice@example.com")
	if err := l.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got := len(l.Entries()); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}
}

func TestVerifyDetectsTamper(t *testing.T) {
	l := New()
	l.Append("one")
	l.Append("two")
	l.entries[0].What = "tampered"
	if err := l.Verify(); err == nil {
		t.Fatal("expected broken chain")
	}
}

func TestConcurrentAppend(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append("event")
		}()
	}
	wg.Wait()
	if err := l.Verify(); err != nil {
		t.Fatalf("Verify after concurrent appends: %v", err)
	}
	if got := len(l.Entries()); got != 50 {
		t.Fatalf("entries = %d, want 50", got)
	}
}
