package testutil

import (
	"context"
	"fmt"
	"testing"

	"aroma-inventory/internal/config"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/valueobject"
	"aroma-inventory/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DB returns a migrated in-memory SQLite database private to the test.
// A single connection keeps every statement on the same memory database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Connect(config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   dsn,
		LogLevel:     "silent",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, email, role string) *model.User {
	tb.Helper()
	name, _ := valueobject.NewPersonName("Test", "User")
	addr, err := valueobject.NewEmail(email)
	if err != nil {
		tb.Fatalf("seed user email: %v", err)
	}
	u, err := model.NewUser(name, addr, "password1", role, "system")
	if err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProduct(tb testing.TB, db *gorm.DB, name string, details model.ProductDetails, stock int) *model.Product {
	tb.Helper()
	pn, err := valueobject.NewProductName(name)
	if err != nil {
		tb.Fatalf("seed product name: %v", err)
	}
	price, _ := valueobject.MoneyFromFloat(10, "ALL")
	p, err := model.NewProduct(pn, "", price, "", details, "system")
	if err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	p.StockQuantity = stock
	if err := db.WithContext(context.Background()).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedBusinessClient(tb testing.TB, db *gorm.DB, nipt, businessName string) *model.Client {
	tb.Helper()
	n, err := valueobject.NewNIPT(nipt)
	if err != nil {
		tb.Fatalf("seed client nipt: %v", err)
	}
	c, err := model.NewBusinessClient(model.BusinessInfo{NIPT: n, BusinessName: businessName}, model.ContactInfo{}, "system")
	if err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	if err := db.WithContext(context.Background()).Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}
