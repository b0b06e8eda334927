package gameservice

import (
	"errors"
	"testing"
	"time"
)

func TestTimeParser_Parse(t *testing.T) {
	tp := NewTimeParser()
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2026, 10, 14, 7, 30, 0, 0, ny)

	t.Run("rfc3339 passes through", func(t *testing.T) {
		got, err := tp.Parse("2026-10-15T13:00:00Z", "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(time.Date(2026, 10, 15, 13, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected time %s", got)
		}
	})

	t.Run("tomorrow in eastern time", func(t *testing.T) {
		got, err := tp.Parse("tomorrow at 9:00am", "EST", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2026, 10, 15, 9, 0, 0, 0, ny)
		if !got.Equal(want) {
			t.Fatalf("expected %s, got %s", want.UTC(), got)
		}
		if got.Location() != time.UTC {
			t.Fatalf("expected UTC, got %s", got.Location())
		}
	})

	t.Run("unknown timezone", func(t *testing.T) {
		_, err := tp.Parse("tomorrow", "Mars/Olympus", now)
		if !errors.Is(err, ErrInvalidTeeTime) {
			t.Fatalf("expected ErrInvalidTeeTime, got %v", err)
		}
	})

	t.Run("gibberish", func(t *testing.T) {
		_, err := tp.Parse("whenever the fog lifts", "", now)
		if !errors.Is(err, ErrInvalidTeeTime) {
			t.Fatalf("expected ErrInvalidTeeTime, got %v", err)
		}
	})
}
