// Package dbtest opens throwaway SQLite databases migrated with the same
// schema as production, for service and handler tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"interviewhub/internal/db"
	"interviewhub/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), db.Config())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// one connection keeps the shared in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func CreateUser(t testing.TB, gdb *gorm.DB, name string) *models.User {
	t.Helper()
	year := 2025
	u := &models.User{
		FullName:      name,
		Email:         strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.edu",
		YearOfPassing: &year,
		Branch:        "CSE",
		Verified:      true,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreateCompany(t testing.TB, gdb *gorm.DB, name string) *models.Company {
	t.Helper()
	c := &models.Company{Name: name, Industry: "Technology"}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	return c
}
