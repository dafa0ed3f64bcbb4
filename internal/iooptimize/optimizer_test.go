package iooptimize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/pokedexdb/pokedexdb/internal/iodb"
	"github.com/pokedexdb/pokedexdb/internal/iooptimize"
	"github.com/pokedexdb/pokedexdb/internal/iotesting"
	"github.com/pokedexdb/pokedexdb/pkg/errcode"
	"github.com/pokedexdb/pokedexdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimize(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.Config(t)
	op := iotesting.OpenSQLite(t, cfg)
	gdb := op.DB()

	scope := schema.FormScope{GlobalNo: "0006"}
	require.NoError(t, gdb.Create(&schema.Pokedex{
		ID: "0006_00000000_0_000_0", FormScope: scope,
	}).Error)
	names := []schema.PokedexName{
		{ID: "0006_00000000_0_000_0", FormScope: scope, Language: "jpn", Name: "リザードン"},
		{ID: "0999_00000000_0_000_0", Language: "jpn", Name: "stray"},
	}
	require.NoError(t, gdb.Create(&names).Error)
	require.NoError(t, gdb.Create(&schema.LocalPokedex{
		No: "10", FormScope: scope, Version: "x_y", Pokedex: "central",
	}).Error)
	types := []schema.LocalPokedexType{
		{FormScope: scope, Version: "x_y", Type1: "ほのお"},
		{FormScope: scope, Version: "sun_moon", Type1: "ほのお"},
	}
	require.NoError(t, gdb.Create(&types).Error)

	stats, err := iooptimize.NewOptimizer(op).Optimize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Orphans)

	var count int64
	require.NoError(t, gdb.Model(&schema.PokedexName{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	versions, err := iodb.NewStore(gdb).Versions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x_y"}, versions)
	var left []schema.LocalPokedexType
	require.NoError(t, gdb.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "x_y", left[0].Version)

	// nothing left to remove
	stats, err = iooptimize.NewOptimizer(op).Optimize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Orphans)
}

func TestOptimizeNotConnected(t *testing.T) {
	_, err := iooptimize.NewOptimizer(iodb.NewOperator()).Optimize(context.Background())
	require.Error(t, err)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}
