package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

// openPostgresStoreForIntegrationTest подключается к тестовой базе из
// ORDERS_POSTGRES_TEST_DSN. Без заданного DSN интеграционные тесты пропускаются,
// чтобы обычный прогон не требовал поднятого PostgreSQL.
func openPostgresStoreForIntegrationTest(t *testing.T) *Store {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("ORDERS_POSTGRES_TEST_DSN"))
	if dsn == "" {
		t.Skip("ORDERS_POSTGRES_TEST_DSN is not set, skipping postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.MigrateUp(ctx); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if _, err := store.DB().ExecContext(ctx, `TRUNCATE TABLE orders RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate orders: %v", err)
	}

	return store
}
