// Package pgtest starts a throwaway PostgreSQL container with the schema applied.
// It is imported by integration tests only.
package pgtest

import (
	"context"
	"database/sql"
	"time"

	"sharedcab/internal/adapters/out/postgres"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every table the schema creates, children first.
const Tables = "cancellations, bookings, ride_groups, vehicles, passengers, pricing_configs"

func Start(ctx context.Context) (*tcpostgres.PostgresContainer, *gorm.DB, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return container, nil, err
	}
	db, err := gorm.Open(
		gormpostgres.New(gormpostgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return container, nil, err
	}

	if err = postgres.Migrate(db); err != nil {
		return container, nil, err
	}
	return container, db, nil
}

// Truncate empties every table.
func Truncate(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE " + Tables + " CASCADE").Error
}
