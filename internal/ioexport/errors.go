package ioexport

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

func NoVersionsError() error {
	msg := `No game versions to export

Import regional pokedex files first (<em>pokedexdb import</em>)
or give versions with <em>--versions</em>.`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportNoVersionsError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn, errors.New("no versions")),
	}
}

func ReconcileError(version string, err error) error {
	msg := "Cannot reconcile version <em>%s</em>"
	vars := []any{version}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportReconcileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: reconcile %s: %w", fn, version, err),
	}
}

func WriteError(path string, err error) error {
	msg := "Cannot write <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: write %s: %w", fn, path, err),
	}
}

func LogError(path string, err error) error {
	msg := "Cannot record export of <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportLogError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: export log of %s: %w", fn, path, err),
	}
}

func AllVersionsFailedError(count int) error {
	msg := `Failed number of versions: <em>%d</em>`
	vars := []any{count}

	plural := "s"
	if count == 1 {
		plural = ""
	}

	return &gn.Error{
		Code: errcode.ExportAllVersionsFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%d version%s failed to export", count, plural),
	}
}

func CancelledError(err error) error {
	msg := "Export was cancelled"

	return &gn.Error{
		Code: errcode.CancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("export cancelled: %w", err),
	}
}
