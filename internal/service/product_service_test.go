package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/testutil"
	"aroma-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(e ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

func newProductFixture(t *testing.T) (ProductService, *gorm.DB, *recordingPublisher, Actor) {
	t.Helper()
	db := testutil.DB(t)
	pub := &recordingPublisher{}
	svc := NewProductService(db, repository.NewProductRepo(db), repository.NewStockHistoryRepo(db), pub, logger.Nop(),
		ProductOptions{LowStockThreshold: 10, DefaultCurrency: "ALL"})
	user := testutil.SeedUser(t, db, "staff@example.com", model.RoleStaff)
	return svc, db, pub, Actor{UserID: user.ID, Email: user.Email, Name: user.FullName(), Role: user.Role}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCreateProduct_AromaBombelTaste(t *testing.T) {
	svc, _, pub, actor := newProductFixture(t)

	resp, err := svc.CreateProduct(context.Background(), actor, CreateProductRequest{
		ProductType:          "AromaBombel",
		Name:                 "Vanilla Bombel",
		Price:                dec(12.5),
		ProductVariantFields: ProductVariantFields{TasteID: intPtr(2)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Taste == nil || *resp.Taste != "Sweet" {
		t.Errorf("expected taste Sweet, got %v", resp.Taste)
	}
	if resp.TasteID == nil || *resp.TasteID != 2 {
		t.Errorf("expected taste id 2, got %v", resp.TasteID)
	}
	if resp.StockQuantity != 0 || !resp.IsActive {
		t.Errorf("new product must be active with zero stock: %+v", resp)
	}
	if resp.Currency != "ALL" {
		t.Errorf("expected default currency ALL, got %s", resp.Currency)
	}
	if resp.PlugType != nil || resp.BatteryType != nil {
		t.Error("unrelated variant fields must be empty")
	}
	if got := pub.actions(); len(got) != 1 || got[0] != "product_created" {
		t.Errorf("unexpected events %v", got)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _, _, actor := newProductFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateProductRequest
	}{
		{"unknown type", CreateProductRequest{ProductType: "Candle", Name: "Wax", Price: dec(1)}},
		{"short name", CreateProductRequest{ProductType: "AromaBottle", Name: "x", Price: dec(1)}},
		{"negative price", CreateProductRequest{ProductType: "AromaBottle", Name: "Lemon", Price: dec(-1)}},
		{"unknown taste", CreateProductRequest{ProductType: "AromaBottle", Name: "Lemon", Price: dec(1),
			ProductVariantFields: ProductVariantFields{TasteID: intPtr(99)}}},
		{"device without plug", CreateProductRequest{ProductType: "AromaDevice", Name: "Diffuser", Price: dec(1)}},
		{"bad currency", CreateProductRequest{ProductType: "Battery", Name: "Cell", Price: dec(1), Currency: "EURO"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, actor, tt.req)
			if !errors.Is(err, apperror.ErrInvalidArgument) {
				t.Errorf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestCreateProduct_DuplicateNameSameType(t *testing.T) {
	svc, _, _, actor := newProductFixture(t)
	ctx := context.Background()

	req := CreateProductRequest{ProductType: "AromaBottle", Name: "Ocean Mist", Price: dec(5)}
	if _, err := svc.CreateProduct(ctx, actor, req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	req.Name = "ocean mist"
	if _, err := svc.CreateProduct(ctx, actor, req); !errors.Is(err, apperror.ErrDuplicate) {
		t.Errorf("expected duplicate, got %v", err)
	}

	req.ProductType = "AromaBombel"
	if _, err := svc.CreateProduct(ctx, actor, req); err != nil {
		t.Errorf("same name under another type should be allowed: %v", err)
	}
}

func TestCreateProduct_RequiresActor(t *testing.T) {
	svc, _, _, _ := newProductFixture(t)
	_, err := svc.CreateProduct(context.Background(), Actor{}, CreateProductRequest{ProductType: "Battery", Name: "Cell", Price: dec(1)})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestStock_AddThenRemove(t *testing.T) {
	svc, db, pub, actor := newProductFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "Lavender Bottle", model.AromaBottleDetails{}, 0)

	if _, err := svc.AddStock(ctx, actor, p.ID, StockChangeRequest{Quantity: 100, Reason: "delivery"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	resp, err := svc.RemoveStock(ctx, actor, p.ID, StockChangeRequest{Quantity: 30})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if resp.Product.StockQuantity != 70 {
		t.Errorf("expected 70 in stock, got %d", resp.Product.StockQuantity)
	}
	if resp.History.QuantityChanged != -30 || resp.History.QuantityAfter != 70 || resp.History.ChangeType != "Removed" {
		t.Errorf("unexpected history row: %+v", resp.History)
	}
	if resp.History.ChangedBy != actor.UserID {
		t.Errorf("history must record the actor")
	}

	stored, err := svc.GetProduct(ctx, p.ID)
	if err != nil || stored.StockQuantity != 70 {
		t.Fatalf("stored stock = %v (%v)", stored, err)
	}

	history, err := svc.GetStockHistory(ctx, p.ID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	sum := 0
	for _, h := range history {
		sum += h.QuantityChanged
	}
	if sum != 70 {
		t.Errorf("history deltas should sum to current stock, got %d", sum)
	}

	want := []string{"stock_added", "stock_removed"}
	got := pub.actions()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestStock_RemoveMoreThanAvailable(t *testing.T) {
	svc, db, pub, actor := newProductFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "Pine Bombel", model.AromaBombelDetails{}, 100)

	_, err := svc.RemoveStock(ctx, actor, p.ID, StockChangeRequest{Quantity: 150})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	var ise *apperror.InsufficientStockError
	if !errors.As(err, &ise) || ise.Requested != 150 || ise.Available != 100 {
		t.Errorf("unexpected error detail: %+v", ise)
	}

	stored, _ := svc.GetProduct(ctx, p.ID)
	if stored.StockQuantity != 100 {
		t.Errorf("stock must be untouched, got %d", stored.StockQuantity)
	}
	history, _ := svc.GetStockHistory(ctx, p.ID, 0)
	if len(history) != 0 {
		t.Errorf("no history row expected, got %d", len(history))
	}
	if len(pub.actions()) != 0 {
		t.Errorf("no events expected, got %v", pub.actions())
	}
}

func TestStock_LowStockAlert(t *testing.T) {
	svc, db, pub, actor := newProductFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "AA Pack", model.BatteryDetails{}, 15)

	if _, err := svc.RemoveStock(ctx, actor, p.ID, StockChangeRequest{Quantity: 5}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got := pub.actions()
	if len(got) != 2 || got[1] != "low_stock" {
		t.Errorf("expected low_stock alert, got %v", got)
	}
}

func TestStock_InvalidQuantity(t *testing.T) {
	svc, db, _, actor := newProductFixture(t)
	p := testutil.SeedProduct(t, db, "Mint Bottle", model.AromaBottleDetails{}, 1)

	for _, qty := range []int{0, -4} {
		if _, err := svc.AddStock(context.Background(), actor, p.ID, StockChangeRequest{Quantity: qty}); !errors.Is(err, apperror.ErrInvalidArgument) {
			t.Errorf("qty %d: expected invalid argument, got %v", qty, err)
		}
	}
}

func TestStock_UnknownProduct(t *testing.T) {
	svc, _, _, actor := newProductFixture(t)
	_, err := svc.AddStock(context.Background(), actor, uuid.New(), StockChangeRequest{Quantity: 1})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateProduct_KeepsVariantAndStock(t *testing.T) {
	svc, db, _, actor := newProductFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "Room Diffuser", model.AromaDeviceDetails{PlugType: "EU"}, 8)

	resp, err := svc.UpdateProduct(ctx, actor, p.ID, UpdateProductRequest{
		Name:  "Room Diffuser Pro",
		Price: dec(49.99),
		ProductVariantFields: ProductVariantFields{
			PlugType:    strPtr("UK"),
			SquareMeter: intPtr(40),
			Programs:    intPtr(3),
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Name != "Room Diffuser Pro" || resp.ProductType != "AromaDevice" {
		t.Errorf("unexpected product: %+v", resp)
	}
	if resp.PlugType == nil || *resp.PlugType != "UK" || resp.SquareMeter == nil || *resp.SquareMeter != 40 {
		t.Errorf("device fields not applied: %+v", resp)
	}
	if !resp.Price.Equal(dec(49.99)) || resp.Currency != "ALL" {
		t.Errorf("price not applied: %s %s", resp.Price, resp.Currency)
	}
	if resp.StockQuantity != 8 {
		t.Errorf("update must not touch stock, got %d", resp.StockQuantity)
	}
}

func TestDeactivateProduct(t *testing.T) {
	svc, db, _, actor := newProductFixture(t)
	ctx := context.Background()
	stocked := testutil.SeedProduct(t, db, "Stocked Bottle", model.AromaBottleDetails{}, 3)
	empty := testutil.SeedProduct(t, db, "Empty Bottle", model.AromaBottleDetails{}, 0)

	if _, err := svc.DeactivateProduct(ctx, actor, stocked.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("expected conflict for stocked product, got %v", err)
	}

	resp, err := svc.DeactivateProduct(ctx, actor, empty.ID)
	if err != nil || resp.IsActive {
		t.Fatalf("deactivate: %v %+v", err, resp)
	}
	if _, err := svc.AddStock(ctx, actor, empty.ID, StockChangeRequest{Quantity: 1}); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("stock change on inactive product should conflict, got %v", err)
	}

	resp, err = svc.ActivateProduct(ctx, actor, empty.ID)
	if err != nil || !resp.IsActive {
		t.Fatalf("activate: %v %+v", err, resp)
	}
}

// stockRacingRepo commits a stock change right after the first read of a
// product, as a concurrent AddStock would.
type stockRacingRepo struct {
	repository.ProductRepository
	once sync.Once
}

func (r *stockRacingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := r.ProductRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.once.Do(func() {
		err = r.ProductRepository.CompareAndSetStock(ctx, id, p.StockQuantity, p.StockQuantity+5, "racer")
	})
	return p, err
}

func TestDeactivateProduct_StockAddedAfterRead(t *testing.T) {
	db := testutil.DB(t)
	base := repository.NewProductRepo(db)
	svc := NewProductService(db, &stockRacingRepo{ProductRepository: base}, repository.NewStockHistoryRepo(db), nil, logger.Nop(), ProductOptions{})
	user := testutil.SeedUser(t, db, "staff@example.com", model.RoleStaff)
	actor := Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
	p := testutil.SeedProduct(t, db, "Racing Bottle", model.AromaBottleDetails{}, 0)

	if _, err := svc.DeactivateProduct(context.Background(), actor, p.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	got, err := base.FindByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.IsActive || got.StockQuantity != 5 {
		t.Errorf("product must stay active with its stock: active=%v stock=%d", got.IsActive, got.StockQuantity)
	}
}

func TestUpdateProduct_KeepsConcurrentDeactivation(t *testing.T) {
	svc, db, _, actor := newProductFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "Quiet Bottle", model.AromaBottleDetails{}, 0)
	repo := repository.NewProductRepo(db)

	stale, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if _, err := svc.DeactivateProduct(ctx, actor, p.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	stale.Description = "edited from a stale read"
	if err := repo.Save(ctx, stale); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := repo.FindByID(ctx, p.ID)
	if got.IsActive || got.Description != "edited from a stale read" {
		t.Errorf("save must not touch is_active: active=%v description=%q", got.IsActive, got.Description)
	}
}

func TestListLowStock(t *testing.T) {
	svc, db, _, _ := newProductFixture(t)
	ctx := context.Background()
	testutil.SeedProduct(t, db, "Low One", model.AromaBottleDetails{}, 2)
	testutil.SeedProduct(t, db, "Edge One", model.AromaBottleDetails{}, 10)
	testutil.SeedProduct(t, db, "Plenty", model.AromaBottleDetails{}, 50)

	low, err := svc.ListLowStock(ctx, 0, 1, 0)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if low.Total != 2 || len(low.Items) != 2 {
		t.Fatalf("expected 2 low stock products, got %d of %d", len(low.Items), low.Total)
	}
	for _, it := range low.Items {
		if !it.IsLowStock {
			t.Errorf("%s should be flagged low stock", it.Name)
		}
	}

	page, err := svc.ListLowStock(ctx, 0, 2, 1)
	if err != nil {
		t.Fatalf("low stock page: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 1 || page.Page != 2 {
		t.Errorf("unexpected second page: %+v", page)
	}

	list, err := svc.ListProducts(ctx, ProductQuery{Type: "aromabottle", Search: "one"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 2 || list.PageSize != 20 {
		t.Errorf("unexpected list: total=%d page_size=%d", list.Total, list.PageSize)
	}
}

func TestToProductResponse_UnknownType(t *testing.T) {
	p := &model.Product{ProductType: "Mystery", Name: "???"}
	resp := toProductResponse(p, 10)
	if resp.ProductType != "Mystery" || resp.Taste != nil || resp.PlugType != nil {
		t.Errorf("unknown type should only expose common fields: %+v", resp)
	}
}

func TestToProductResponse_BatterySize(t *testing.T) {
	size := model.BatterySizeAAA
	p := &model.Product{ProductType: model.ProductTypeBattery, BatterySize: &size, Brand: strPtr("Volta")}
	resp := toProductResponse(p, 10)
	if resp.Size == nil || *resp.Size != "AAA" || resp.SizeID == nil || *resp.SizeID != 2 {
		t.Errorf("unexpected size mapping: %+v", resp)
	}
}
