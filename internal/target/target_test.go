package target

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"app.log", filepath.Join(cwd, "app.log")},
		{"  app.log", filepath.Join(cwd, "app.log")},
		{`\\logs/app.log`, filepath.Join(cwd, "logs", "app.log")},
		{"./a/../b.log", filepath.Join(cwd, "b.log")},
		{".hidden", filepath.Join(cwd, ".hidden")},
		{"../up.log", filepath.Join(filepath.Dir(cwd), "up.log")},
		{"/var/log/syslog", "/var/log/syslog"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_EmptyPath(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		if _, err := Normalize(in); !errors.Is(err, ErrEmptyPath) {
			t.Fatalf("Normalize(%q) error = %v, want ErrEmptyPath", in, err)
		}
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, abs, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer f.Close()
	if abs != path {
		t.Fatalf("Open path = %q, want %q", abs, path)
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.log")

	_, abs, err := Open(missing)
	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("Open(missing) error = %v, want *AccessError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Open(missing) error = %v, want it to wrap fs.ErrNotExist", err)
	}
	if abs != missing || accessErr.Path != missing {
		t.Fatalf("Open(missing) path = %q / %q, want %q", abs, accessErr.Path, missing)
	}

	if _, _, err := Open(dir); !errors.Is(err, ErrIsDirectory) {
		t.Fatalf("Open(dir) error = %v, want ErrIsDirectory", err)
	}
	if _, _, err := Open(" "); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("Open(blank) error = %v, want ErrEmptyPath", err)
	}
}

func TestWaitOpen_WaitsForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.log")

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(path, []byte("ready\n"), 0o644)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f, abs, err := WaitOpen(ctx, path, 5*time.Millisecond, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitOpen returned error: %v", err)
	}
	defer f.Close()
	if abs != path {
		t.Fatalf("WaitOpen path = %q, want %q", abs, path)
	}
}

func TestWaitOpen_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.log")

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	_, _, err := WaitOpen(ctx, path, 5*time.Millisecond, 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitOpen error = %v, want context.DeadlineExceeded", err)
	}
}

func TestWaitOpen_DoesNotRetryDirectories(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		_, _, err := WaitOpen(context.Background(), t.TempDir(), time.Millisecond, time.Millisecond)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrIsDirectory) {
			t.Fatalf("WaitOpen error = %v, want ErrIsDirectory", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("WaitOpen kept retrying a directory")
	}
}

func TestCalculateBackoff(t *testing.T) {
	base := 2 * time.Second
	maxDelay := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 100, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateBackoff(tt.failures, base, maxDelay); got != tt.want {
				t.Errorf("calculateBackoff(%d, %v, %v) = %v, want %v", tt.failures, base, maxDelay, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	for failures := 0; failures <= 70; failures++ {
		if got := calculateBackoff(failures, 50*time.Millisecond, time.Second); got > time.Second || got <= 0 {
			t.Errorf("calculateBackoff(%d) = %v, want in (0, 1s]", failures, got)
		}
	}
}
