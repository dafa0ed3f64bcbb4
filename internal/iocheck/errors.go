package iocheck

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/pkg/errcode"
)

func NotConnectedError() error {
	msg := "Database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn, errors.New("not connected")),
	}
}

func ReadError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CheckReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: read %s: %w", fn, path, err),
	}
}

func MissingIDsError(ids []string) error {
	msg := `Identifiers missing from the national pokedex: <em>%d</em>

First missing: <em>%s</em>
Import the global pokedex file first (<em>pokedexdb import</em>).`
	first := ids
	if len(first) > 5 {
		first = first[:5]
	}
	vars := []any{len(ids), strings.Join(first, ", ")}

	return &gn.Error{
		Code: errcode.CheckMissingIDsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%d identifiers are missing", len(ids)),
	}
}

func CancelledError(err error) error {
	msg := "Check was cancelled"

	return &gn.Error{
		Code: errcode.CancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("check cancelled: %w", err),
	}
}
