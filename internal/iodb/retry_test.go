package iodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	busy := errors.New("database is locked (5) (SQLITE_BUSY)")
	other := errors.New("no such table: pokedex")
	r := Retry{Attempts: 3, Base: time.Millisecond}
	ctx := context.Background()

	tests := []struct {
		msg   string
		errs  []error
		calls int
		code  gn.ErrorCode
		err   error
	}{
		{"success", []error{nil}, 1, 0, nil},
		{"recovers", []error{busy, busy, nil}, 3, 0, nil},
		{"other error", []error{busy, other}, 2, 0, other},
		{"gives up", []error{busy, busy, busy, busy, busy}, 4,
			errcode.DBBusyError, busy},
	}

	for _, v := range tests {
		var calls int
		err := r.Do(ctx, "insert", func() error {
			res := v.errs[calls]
			calls++
			return res
		})
		assert.Equal(t, v.calls, calls, v.msg)
		if v.err == nil {
			assert.NoError(t, err, v.msg)
			continue
		}
		if v.code == 0 {
			assert.ErrorIs(t, err, v.err, v.msg)
			continue
		}
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.ErrorIs(t, gnErr.Err, v.err, v.msg)
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := Retry{Attempts: 3, Base: time.Hour}

	err := r.Do(ctx, "insert", func() error {
		return errors.New("database is locked")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsBusy(t *testing.T) {
	assert.False(t, IsBusy(nil))
	assert.False(t, IsBusy(errors.New("syntax error")))
	assert.True(t, IsBusy(errors.New("database is locked")))
}
