package iodesc

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

func ReadError(path string, err error) error {
	msg := "Cannot read CSV file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DescriptionsReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn, path, err),
	}
}

func ColumnError(path, column string) error {
	msg := "CSV file <em>%s</em> has no <em>%s</em> column"
	vars := []any{path, column}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DescriptionsColumnError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: column %q is missing in %s", fn, column, path),
	}
}

func InsertError(table string, err error) error {
	msg := "Cannot save descriptions to table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DescriptionsInsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: insert into %s: %w", fn, table, err),
	}
}
