package offset

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "offsets.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return s, path
}

func TestStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	defer s.Close()

	if _, ok, err := s.Get(ctx, "/var/log/app.log"); err != nil || ok {
		t.Fatalf("Get(empty) = ok %v err %v, want no cursor", ok, err)
	}

	want := Cursor{Offset: 42, LastIndex: 7, LastContent: "partial", Updated: time.Unix(1700000000, 0).UTC()}
	if err := s.Save(ctx, "/var/log/app.log", want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, ok, err := s.Get(ctx, "/var/log/app.log")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v err %v, want stored cursor", ok, err)
	}
	if got.Offset != want.Offset || got.LastIndex != want.LastIndex || got.LastContent != want.LastContent || !got.Updated.Equal(want.Updated) {
		t.Fatalf("Get = %+v, want %+v", got, want)
	}

	if err := s.Delete(ctx, "/var/log/app.log"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "/var/log/app.log"); ok {
		t.Fatalf("Get after Delete found a cursor")
	}
}

func TestStore_SaveStampsUpdated(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	defer s.Close()

	before := time.Now()
	if err := s.Save(ctx, "f", Cursor{Offset: 1}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, _, err := s.Get(ctx, "f")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Updated.Before(before.Add(-time.Second)) {
		t.Fatalf("Updated = %v, want about %v", got.Updated, before)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)
	if err := s.Save(ctx, "a", Cursor{Offset: 10}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Save(ctx, "b", Cursor{Offset: 20}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer reopened.Close()

	for file, want := range map[string]int64{"a": 10, "b": 20} {
		got, ok, err := reopened.Get(ctx, file)
		if err != nil || !ok {
			t.Fatalf("Get(%q) = %v, %v, want stored cursor", file, ok, err)
		}
		if got.Offset != want {
			t.Fatalf("Get(%q).Offset = %d, want %d", file, got.Offset, want)
		}
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Save(ctx, "f", Cursor{}); err == nil {
		t.Fatalf("Save with canceled context returned nil error")
	}
}

func TestOpen_LockedDatabaseTimesOut(t *testing.T) {
	s, path := openTestStore(t)
	defer s.Close()

	_, err := Open(path)
	if err == nil {
		t.Fatalf("second Open returned nil error, want lock timeout")
	}
	if !strings.Contains(err.Error(), "locked") {
		t.Fatalf("Open error = %q, want it to mention the lock", err.Error())
	}
}
