// Package target resolves and opens the file tailf reads.
package target

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
)

var (
	// ErrEmptyPath is returned for a path that is empty or only whitespace.
	ErrEmptyPath = errors.New("supplied path is empty")
	// ErrIsDirectory is returned when the path names a directory.
	ErrIsDirectory = errors.New("path points to a directory, it should point to a file")
)

// AccessError reports a file that exists in name but cannot be opened for
// reading. It is the only error WaitOpen retries.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("unable to access file %q: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// Normalize turns a user-supplied path into an absolute one. A relative path
// that does not start with '.' loses any leading whitespace, slashes,
// backslashes and dots and is then taken relative to the working directory.
func Normalize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	if !filepath.IsAbs(path) && path[0] != '.' {
		path = "./" + strings.TrimLeftFunc(path, func(r rune) bool {
			return unicode.IsSpace(r) || r == '\\' || r == '/' || r == '.'
		})
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("unable to turn %q into absolute path: %w", path, err)
	}
	return abs, nil
}

// Open normalizes path and opens it for reading. It returns the absolute
// path alongside the file, also on an *AccessError.
func Open(path string) (*os.File, string, error) {
	abs, err := Normalize(path)
	if err != nil {
		return nil, "", err
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, abs, fmt.Errorf("%q: %w", abs, ErrIsDirectory)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, abs, &AccessError{Path: abs, Err: err}
	}
	log.Debug().Str("path", abs).Msg("opened file")
	return f, abs, nil
}

// WaitOpen is Open that keeps retrying while the file is inaccessible.
// Retries back off exponentially from base up to maxDelay. Errors other
// than *AccessError, and context cancellation, end the wait.
func WaitOpen(ctx context.Context, path string, base, maxDelay time.Duration) (*os.File, string, error) {
	for failures := 0; ; failures++ {
		f, abs, err := Open(path)
		if err == nil {
			if failures > 0 {
				log.Info().Str("path", abs).Int("attempts", failures+1).Msg("file became accessible")
			}
			return f, abs, nil
		}
		var accessErr *AccessError
		if !errors.As(err, &accessErr) {
			return nil, abs, err
		}
		if failures == 0 {
			log.Info().Err(accessErr.Err).Str("path", abs).Msg("waiting for file to become accessible")
		}

		timer := time.NewTimer(calculateBackoff(failures, base, maxDelay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, abs, ctx.Err()
		case <-timer.C:
		}
	}
}

// calculateBackoff doubles base once per failure and caps the result at
// maxDelay. A non-positive maxDelay leaves the delay uncapped.
func calculateBackoff(failures int, base, maxDelay time.Duration) time.Duration {
	delay := base
	for i := 0; i < failures; i++ {
		if maxDelay > 0 && delay >= maxDelay {
			break
		}
		delay *= 2
	}
	if maxDelay > 0 && delay > maxDelay {
		return maxDelay
	}
	return delay
}
