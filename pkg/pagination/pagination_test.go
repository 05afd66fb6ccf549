package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, 500: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 2, 14, 9, 30, 0, 123, time.UTC)
	encoded := EncodeCursor(Cursor{CreatedAt: at, ID: 42})

	decoded, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if decoded.ID != 42 || !decoded.CreatedAt.Equal(at) {
		t.Fatalf("unexpected cursor %+v", decoded)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if c, err := ParseCursor(""); err != nil || c != nil {
		t.Fatalf("empty cursor should be nil, got %+v %v", c, err)
	}
	for _, raw := range []string{"%%%", "bm9waXBl", EncodeCursor(Cursor{CreatedAt: time.Now()})} {
		if _, err := ParseCursor(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestBuild(t *testing.T) {
	type row struct {
		id int64
		at time.Time
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{{3, base.Add(3 * time.Hour)}, {2, base.Add(2 * time.Hour)}, {1, base}}
	cursorOf := func(r row) Cursor { return Cursor{CreatedAt: r.at, ID: r.id} }

	page := Build(rows, 2, cursorOf)
	if len(page.Items) != 2 || page.NextCursor == "" {
		t.Fatalf("expected 2 items and a cursor, got %+v", page)
	}
	next, err := ParseCursor(page.NextCursor)
	if err != nil || next.ID != 2 {
		t.Fatalf("cursor should point at last kept row, got %+v %v", next, err)
	}

	page = Build(rows, 3, cursorOf)
	if len(page.Items) != 3 || page.NextCursor != "" {
		t.Fatalf("expected final page, got %+v", page)
	}
}
