package history

import (
	"path/filepath"
	"testing"
)

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	rec, err := Open(path, "session-1", "prog.sfl")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rec.Close()

	if err := rec.Record("add 5 1", "6", "6"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := rec.Record("mul 2 3", "6", "add 6 6"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if rec.Steps() != 2 {
		t.Errorf("steps = %d, want 2", rec.Steps())
	}

	var count int
	row := rec.db.QueryRow(`SELECT COUNT(*) FROM steps WHERE session_id = ?`, "session-1")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if count != 2 {
		t.Errorf("persisted steps = %d, want 2", count)
	}
}

func TestTwoSessionsShareOneDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	a, err := Open(path, "a", "x.sfl")
	if err != nil {
		t.Fatal(err)
	}
	a.Close()
	b, err := Open(path, "b", "y.sfl")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	var sessions int
	if err := b.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&sessions); err != nil {
		t.Fatal(err)
	}
	if sessions != 2 {
		t.Errorf("sessions = %d, want 2", sessions)
	}
}
