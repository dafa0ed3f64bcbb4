package iodb

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Retry repeats operations that fail because SQLite is busy. The n-th
// retry waits n times Base.
type Retry struct {
	Attempts int
	Base     time.Duration
}

// DefaultRetry makes 5 retries with linear 200ms backoff.
var DefaultRetry = Retry{Attempts: 5, Base: 200 * time.Millisecond}

// Do runs fn, retrying it while it returns a busy error. Other errors are
// returned at once.
func (r Retry) Do(ctx context.Context, label string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil || !IsBusy(err) {
			return err
		}
		if attempt >= r.Attempts {
			return BusyError(label, attempt+1, err)
		}

		slog.Warn("Database is busy, retrying",
			"operation", label, "attempt", attempt+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.Base * time.Duration(attempt+1)):
		}
	}
}

// IsBusy reports if err means the database is locked by another
// connection.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
