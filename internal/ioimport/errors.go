package ioimport

import (
	"errors"
	"fmt"
	"runtime"

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

func NoFilesError(paths []string) error {
	msg := `No JSON files found in <em>%v</em>`
	vars := []any{paths}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no json files in %v", fn, paths),
	}
}

func ReadError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn, path, err),
	}
}

func DecodeError(path string, err error) error {
	msg := `Cannot decode JSON file <em>%s</em>

Expected a global pokedex file {"pokedex": [...]}
or a regional file {"game_version": ..., "pokedex": {...}}.`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode %s: %w", fn, path, err),
	}
}

func NoGameVersionError(path string) error {
	msg := "Regional file <em>%s</em> has no game_version"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: empty game_version in %s", fn, path),
	}
}

func InsertError(path, table string, err error) error {
	msg := "Cannot save data of <em>%s</em> to table <em>%s</em>"
	vars := []any{path, table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportInsertError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: insert into %s from %s: %w",
			fn, table, path, err),
	}
}

func AllFilesFailedError(count int) error {
	msg := `Failed number of files: <em>%d</em>`
	vars := []any{count}

	plural := "s"
	if count == 1 {
		plural = ""
	}

	return &gn.Error{
		Code: errcode.ImportAllFilesFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%d file%s failed to import", count, plural),
	}
}

func CancelledError(err error) error {
	msg := "Import was cancelled"

	return &gn.Error{
		Code: errcode.CancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("import cancelled: %w", err),
	}
}
