package database

import (
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/classhub/classhub-web/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "app", DBPass: "p@ss", DBHost: "db", DBPort: "3307", DBName: "classhub"})
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("parse %q: %v", dsn, err)
	}
	if mc.User != "app" || mc.Passwd != "p@ss" || mc.Addr != "db:3307" || mc.DBName != "classhub" {
		t.Fatalf("config = %+v", mc)
	}
	if !mc.ParseTime {
		t.Fatal("parseTime not set")
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Fatalf("dsn %q lacks charset", dsn)
	}
}
