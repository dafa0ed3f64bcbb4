// Package iodb implements database access for SQLite (modernc) and
// PostgreSQL (pgxpool). This is an impure I/O package that implements
// contracts defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pokedexdb/pokedexdb/pkg/config"
	"github.com/pokedexdb/pokedexdb/pkg/db"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// sqlitePragmas are applied to every SQLite connection.
const sqlitePragmas = "?_pragma=busy_timeout(5000)" +
	"&_pragma=journal_mode(WAL)" +
	"&_pragma=foreign_keys(1)"

// operator implements db.Operator for both backends.
type operator struct {
	driver string
	pool   *pgxpool.Pool
	sqlDB  *sql.DB
	gormDB *gorm.DB
}

// NewOperator creates a new database operator (without connecting).
func NewOperator() db.Operator {
	return &operator{}
}

// Connect opens the database selected by cfg.Driver.
func (o *operator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	switch cfg.Driver {
	case "sqlite":
		return o.connectSQLite(ctx, cfg)
	case "postgres":
		return o.connectPostgres(ctx, cfg)
	default:
		return UnknownDriverError(cfg.Driver)
	}
}

func (o *operator) connectSQLite(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	sqlDB, err := sql.Open("sqlite", cfg.Path+sqlitePragmas)
	if err != nil {
		return SQLiteConnectionError(cfg.Path, err)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return SQLiteConnectionError(cfg.Path, err)
	}

	gormDB, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		return SQLiteConnectionError(cfg.Path, err)
	}

	o.driver = "sqlite"
	o.sqlDB = sqlDB
	o.gormDB = gormDB
	return nil
}

func (o *operator) connectPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	o.driver = "postgres"
	o.pool = pool
	o.sqlDB = sqlDB
	o.gormDB = gormDB
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
}

// Close releases all database connections.
func (o *operator) Close() error {
	var err error
	if o.sqlDB != nil {
		err = o.sqlDB.Close()
	}
	if o.pool != nil {
		o.pool.Close()
	}
	o.sqlDB, o.pool, o.gormDB = nil, nil, nil
	return err
}

// DB returns the GORM handle.
func (o *operator) DB() *gorm.DB {
	return o.gormDB
}

// Driver returns the backend of the open connection.
func (o *operator) Driver() string {
	return o.driver
}

// TableExists checks if a table exists in the current database.
func (o *operator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if o.gormDB == nil {
		return false, NotConnectedError()
	}
	return o.gormDB.WithContext(ctx).Migrator().HasTable(tableName), nil
}

// HasTables checks if the database has any tables.
func (o *operator) HasTables(ctx context.Context) (bool, error) {
	tables, err := o.tables(ctx)
	if err != nil {
		return false, err
	}
	return len(tables) > 0, nil
}

// DropAllTables drops every table of the database.
func (o *operator) DropAllTables(ctx context.Context) error {
	tables, err := o.tables(ctx)
	if err != nil {
		return err
	}

	m := o.gormDB.WithContext(ctx).Migrator()
	for _, table := range tables {
		if err = m.DropTable(table); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}

func (o *operator) tables(ctx context.Context) ([]string, error) {
	if o.gormDB == nil {
		return nil, NotConnectedError()
	}

	tables, err := o.gormDB.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, TableCheckError(err)
	}

	// SQLite keeps internal tables (sqlite_sequence) that cannot be dropped.
	res := make([]string, 0, len(tables))
	for _, v := range tables {
		if !strings.HasPrefix(v, "sqlite_") {
			res = append(res, v)
		}
	}
	return res, nil
}
