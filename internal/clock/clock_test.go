package clock

import (
	"testing"
	"time"
)

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	c := NewFake(start)
	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Fatalf("unexpected time after advance: %s", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("unexpected time after set: %s", c.Now())
	}
}

func TestSystemTruncatesToMillis(t *testing.T) {
	now := System{}.Now()
	if now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("expected millisecond precision, got %d ns", now.Nanosecond())
	}
}
