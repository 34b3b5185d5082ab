package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

// SetupTestDB opens the MySQL test database named by TEST_MYSQL_DSN
// (default root@localhost:3306/barbershop_test). The test is skipped when
// the database is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/barbershop_test?parseTime=true&charset=utf8mb4"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	if _, err := db.Exec(`DROP TABLE IF EXISTS record_collections`); err != nil {
		t.Logf("failed to drop record_collections: %v", err)
	}

	return db
}

// CleanupTestDB removes the collection table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	if _, err := db.Exec(`DROP TABLE IF EXISTS record_collections`); err != nil {
		t.Logf("failed to drop record_collections: %v", err)
	}

	db.Close()
}

// SetupTestRedis connects to TEST_REDIS_ADDR (default localhost:6379, DB 15)
// and flushes it. The test is skipped when Redis is unreachable.
func SetupTestRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("test redis not available: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Logf("failed to flush test redis: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}
