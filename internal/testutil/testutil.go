//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides fixtures and helpers for integration testing.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// DefaultTestConnString is the default connection string for tests.
	// Override with SMART_STORE_TEST_CONN environment variable.
	DefaultTestConnString = "postgres://postgres@localhost:5432/postgres"

	// MySQLTestConnEnv names the variable holding a MySQL DSN for tests.
	// MySQL tests are skipped when it is unset.
	MySQLTestConnEnv = "SMART_STORE_TEST_MYSQL"

	// TestDBPrefix is the prefix for test databases.
	TestDBPrefix = "smart_store_test_"
)

// PostgresAvailable checks if PostgreSQL is available for testing.
// Returns the connection string if available, empty string otherwise.
func PostgresAvailable() string {
	connStr := os.Getenv("SMART_STORE_TEST_CONN")
	if connStr == "" {
		connStr = DefaultTestConnString
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return ""
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return ""
	}

	return connStr
}

// SkipIfNoPostgres skips the test if PostgreSQL is not available.
func SkipIfNoPostgres(t *testing.T) string {
	connStr := PostgresAvailable()
	if connStr == "" {
		t.Skip("PostgreSQL not available, skipping integration test")
	}
	return connStr
}

// SkipIfNoMySQL skips the test unless a MySQL DSN is configured.
func SkipIfNoMySQL(t *testing.T) string {
	dsn := os.Getenv(MySQLTestConnEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping MySQL integration test", MySQLTestConnEnv)
	}
	return dsn
}

// CreateTestDB creates a scratch PostgreSQL database and returns its
// connection string and name.
func CreateTestDB(t *testing.T, baseConnStr string) (string, string) {
	t.Helper()

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatalf("Failed to generate random database name: %v", err)
	}
	dbName := TestDBPrefix + hex.EncodeToString(randomBytes)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	config, err := pgxpool.ParseConfig(baseConnStr)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}

	// ConnString() does not reflect changes to ConnConfig.Database, so the
	// URL is rebuilt by hand.
	cc := config.ConnConfig
	if cc.Password != "" {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cc.User, cc.Password, cc.Host, cc.Port, dbName), dbName
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", cc.User, cc.Host, cc.Port, dbName), dbName
}

// DropTestDB drops a database created by CreateTestDB. The database is
// kept when the test failed.
func DropTestDB(t *testing.T, baseConnStr, dbName string) {
	t.Helper()

	if t.Failed() {
		t.Logf("Test failed - keeping database %s for diagnostics", dbName)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Logf("Warning: Failed to connect to drop test database: %v", err)
		return
	}
	defer pool.Close()

	_, _ = pool.Exec(ctx, `
        SELECT pg_terminate_backend(pid)
        FROM pg_stat_activity
        WHERE datname = $1 AND pid <> pg_backend_pid()
    `, dbName)

	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)); err != nil {
		t.Logf("Warning: Failed to drop test database: %v", err)
	}
}

// Raw fixtures: 4 unique valid customers plus 2 exact duplicate rows and
// one row without an id; 3 products; 5 sales, one without a sale date.
const (
	RawCustomers = `CustomerID,Name,Region,JoinDate,BirthDate,Gender
1001,Ada Lovelace,East,2021-01-15,2000-06-15,F
1002,Bob Stone,North,2021-03-01,1985-02-02,M
1001,Ada Lovelace,East,2021-01-15,2000-06-15,F
1003,Cara Diaz,South,2022-03-04,not a date,F
,Nobody,West,2021-02-01,1990-01-01,M
1004,Dan Wu,East,2022-05-05,2010-01-01,M
1002,Bob Stone,North,2021-03-01,1985-02-02,M
`
	RawProducts = `ProductID,ProductName,Category,UnitPrice
101,Laptop,Electronics,793.12
102,Hoodie,Clothing,39.10
103,Cable,Electronics,5.00
`
	RawSales = `TransactionID,SaleDate,CustomerID,ProductID,StoreID,CampaignID,SaleAmount
550,2023-11-05,1001,101,401,0,793.12
551,2023-02-14,1002,102,402,1,39.10
552,2023-07-30,1003,103,403,0,10.00
553,,1004,101,401,0,793.12
554,2024-01-02,1004,102,404,2,78.20
`

	// RawUniqueCustomers is the number of customers RawCustomers yields.
	RawUniqueCustomers = 4

	// RawValidSales is the number of sales RawSales yields.
	RawValidSales = 4
)

// WriteFiles writes name -> content pairs into dir, creating it.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// WriteRawFixtures writes the raw fixture CSVs into dir.
func WriteRawFixtures(t *testing.T, dir string) {
	t.Helper()
	WriteFiles(t, dir, map[string]string{
		"customers_data.csv": RawCustomers,
		"products_data.csv":  RawProducts,
		"sales_data.csv":     RawSales,
	})
}
