package repository

import (
	"context"
	"errors"
	"testing"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/testutil"
	"aroma-inventory/internal/valueobject"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestProductRepo_FindByID(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	sweet := model.TasteSweet
	seeded := testutil.SeedProduct(t, db, "Rose Bombel", model.AromaBombelDetails{Taste: &sweet}, 5)

	got, err := repo.FindByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Taste == nil || *got.Taste != model.TasteSweet || got.StockQuantity != 5 {
		t.Errorf("unexpected product: %+v", got)
	}
	if !got.PriceAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected price 10, got %s", got.PriceAmount)
	}

	_, err = repo.FindByID(ctx, uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestProductRepo_ExistsByNameAndType(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	p := testutil.SeedProduct(t, db, "Citrus Burst", model.AromaBottleDetails{}, 0)

	exists, err := repo.ExistsByNameAndType(ctx, "CITRUS burst", model.ProductTypeAromaBottle, nil)
	if err != nil || !exists {
		t.Errorf("expected case-insensitive match, got %v (%v)", exists, err)
	}
	exists, _ = repo.ExistsByNameAndType(ctx, "Citrus Burst", model.ProductTypeAromaBombel, nil)
	if exists {
		t.Error("same name under a different type must not collide")
	}
	exists, _ = repo.ExistsByNameAndType(ctx, "Citrus Burst", model.ProductTypeAromaBottle, &p.ID)
	if exists {
		t.Error("excluded id must not count")
	}
}

func TestProductRepo_CreateDuplicateHitsUniqueIndex(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProductRepo(db)
	testutil.SeedProduct(t, db, "Woody Oud", model.AromaBottleDetails{}, 0)

	name, _ := valueobject.NewProductName("Woody Oud")
	price, _ := valueobject.MoneyFromFloat(1, "ALL")
	dup, _ := model.NewProduct(name, "", price, "", model.AromaBottleDetails{}, "u")

	err := repo.Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Errorf("expected duplicate from unique index, got %v", err)
	}
}

func TestProductRepo_NameUniqueIgnoresCase(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProductRepo(db)
	testutil.SeedProduct(t, db, "Lemon Bombel", model.AromaBombelDetails{}, 0)

	name, _ := valueobject.NewProductName("lemon bombel")
	price, _ := valueobject.MoneyFromFloat(1, "ALL")
	dup, _ := model.NewProduct(name, "", price, "", model.AromaBombelDetails{}, "u")
	if err := repo.Create(context.Background(), dup); !errors.Is(err, apperror.ErrDuplicate) {
		t.Errorf("expected duplicate for a name differing only in case, got %v", err)
	}

	other, _ := model.NewProduct(name, "", price, "", model.AromaBottleDetails{}, "u")
	if err := repo.Create(context.Background(), other); err != nil {
		t.Errorf("same name under another type must insert, got %v", err)
	}
}

func TestProductRepo_List(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "Alpha Bottle", model.AromaBottleDetails{}, 50)
	testutil.SeedProduct(t, db, "Beta Bottle", model.AromaBottleDetails{}, 3)
	testutil.SeedProduct(t, db, "Gamma Cell", model.BatteryDetails{}, 8)

	bottle := model.ProductTypeAromaBottle
	products, total, err := repo.List(ctx, ProductFilter{Type: &bottle})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(products) != 2 || products[0].Name != "Alpha Bottle" {
		t.Errorf("unexpected type filter result: total=%d %+v", total, products)
	}

	low, total, _ := repo.List(ctx, ProductFilter{LowStockThreshold: 10})
	if total != 2 || len(low) != 2 {
		t.Errorf("expected 2 low stock products, got %d", total)
	}

	found, _, _ := repo.List(ctx, ProductFilter{Search: "gamma"})
	if len(found) != 1 || found[0].ProductType != model.ProductTypeBattery {
		t.Errorf("unexpected search result: %+v", found)
	}

	page, total, _ := repo.List(ctx, ProductFilter{Page: 2, PageSize: 2})
	if total != 3 || len(page) != 1 {
		t.Errorf("expected 1 product on page 2 of 3, got %d of %d", len(page), total)
	}
}

func TestProductRepo_CompareAndSetStock(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "Device One", model.AromaDeviceDetails{PlugType: "EU"}, 10)

	if err := repo.CompareAndSetStock(ctx, p.ID, 10, 15, "u"); err != nil {
		t.Fatalf("cas: %v", err)
	}
	if err := repo.CompareAndSetStock(ctx, p.ID, 10, 20, "u"); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("expected conflict on stale expected value, got %v", err)
	}
	got, _ := repo.FindByID(ctx, p.ID)
	if got.StockQuantity != 15 {
		t.Errorf("expected 15, got %d", got.StockQuantity)
	}
}

func TestProductRepo_SetActive(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	stocked := testutil.SeedProduct(t, db, "Stocked Cell", model.BatteryDetails{}, 4)
	empty := testutil.SeedProduct(t, db, "Empty Cell", model.BatteryDetails{}, 0)

	if err := repo.SetActive(ctx, stocked.ID, false, "u"); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("expected conflict deactivating a stocked product, got %v", err)
	}
	if err := repo.SetActive(ctx, empty.ID, false, "u"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, _ := repo.FindByID(ctx, empty.ID)
	if got.IsActive {
		t.Error("expected product to be inactive")
	}
	if err := repo.CompareAndSetStock(ctx, empty.ID, 0, 3, "u"); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("stock must not move on an inactive product, got %v", err)
	}
	if err := repo.SetActive(ctx, empty.ID, true, "u"); err != nil {
		t.Fatalf("activate: %v", err)
	}
}

func TestProductRepo_Stats(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProductRepo(db)
	testutil.SeedProduct(t, db, "Stocked", model.AromaBottleDetails{}, 20)
	testutil.SeedProduct(t, db, "Scarce", model.AromaBottleDetails{}, 2)

	stats, err := repo.Stats(context.Background(), 10)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 2 || stats.ActiveProducts != 2 || stats.LowStockCount != 1 || stats.TotalUnits != 22 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if v := stats.Valuation["ALL"]; !v.Equal(decimal.NewFromInt(220)) {
		t.Errorf("expected valuation 220 ALL, got %s", v)
	}
}
