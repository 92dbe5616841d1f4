package service

import (
	"context"
	"strings"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/valueobject"
	"aroma-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error)
	ListProducts(ctx context.Context, query ProductQuery) (*ProductListResponse, error)
	ListLowStock(ctx context.Context, threshold, page, pageSize int) (*ProductListResponse, error)
	AddStock(ctx context.Context, actor Actor, id uuid.UUID, req StockChangeRequest) (*StockChangeResponse, error)
	RemoveStock(ctx context.Context, actor Actor, id uuid.UUID, req StockChangeRequest) (*StockChangeResponse, error)
	GetStockHistory(ctx context.Context, id uuid.UUID, limit int) ([]StockHistoryResponse, error)
	DeactivateProduct(ctx context.Context, actor Actor, id uuid.UUID) (*ProductResponse, error)
	ActivateProduct(ctx context.Context, actor Actor, id uuid.UUID) (*ProductResponse, error)
}

type ProductOptions struct {
	LowStockThreshold int
	DefaultCurrency   string
}

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	historyRepo repository.StockHistoryRepository
	events      ws.Publisher
	log         *logger.Logger
	opts        ProductOptions
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	historyRepo repository.StockHistoryRepository,
	events ws.Publisher,
	log *logger.Logger,
	opts ProductOptions,
) ProductService {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = model.DefaultLowStockThreshold
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "ALL"
	}
	return &productService{
		db:          db,
		productRepo: productRepo,
		historyRepo: historyRepo,
		events:      events,
		log:         log,
		opts:        opts,
	}
}

func (s *productService) CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest) (*ProductResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	productType, err := model.ParseProductType(req.ProductType)
	if err != nil {
		return nil, err
	}
	name, err := valueobject.NewProductName(req.Name)
	if err != nil {
		return nil, err
	}
	price, err := s.money(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}
	details, err := detailsFor(productType, req.ProductVariantFields)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByNameAndType(ctx, name.String(), productType, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Duplicate("product", "name", name.String())
	}

	product, err := model.NewProduct(name, req.Description, price, req.PhotoURL, details, actor.ID())
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product created", "product_id", product.ID, "type", product.ProductType, "by", actor.Email)
	resp := toProductResponse(product, s.opts.LowStockThreshold)
	s.publish(actor, "product_update", "product_created", resp, "Product "+product.Name+" created")
	return &resp, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := valueobject.NewProductName(req.Name)
	if err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = product.PriceCurrency
	}
	price, err := s.money(req.Price, currency)
	if err != nil {
		return nil, err
	}
	details, err := detailsFor(product.ProductType, req.ProductVariantFields)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(name.String(), product.Name) {
		exists, err := s.productRepo.ExistsByNameAndType(ctx, name.String(), product.ProductType, &product.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Duplicate("product", "name", name.String())
		}
	}

	if err := product.UpdateBasicInfo(name, req.Description, price, req.PhotoURL, actor.ID()); err != nil {
		return nil, err
	}
	if err := product.UpdateSpecificInfo(details, actor.ID()); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product updated", "product_id", product.ID, "by", actor.Email)
	resp := toProductResponse(product, s.opts.LowStockThreshold)
	s.publish(actor, "product_update", "product_updated", resp, "Product "+product.Name+" updated")
	return &resp, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product, s.opts.LowStockThreshold)
	return &resp, nil
}

func (s *productService) ListProducts(ctx context.Context, query ProductQuery) (*ProductListResponse, error) {
	filter := repository.ProductFilter{
		Active:   query.Active,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Type != "" {
		pt, err := model.ParseProductType(query.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = &pt
	}
	if query.LowStock {
		filter.LowStockThreshold = s.opts.LowStockThreshold
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &ProductListResponse{
		Items:    make([]ProductResponse, 0, len(products)),
		Total:    total,
		Page:     max(query.Page, 1),
		PageSize: query.PageSize,
	}
	if resp.PageSize <= 0 {
		resp.PageSize = 20
	}
	for i := range products {
		resp.Items = append(resp.Items, toProductResponse(&products[i], s.opts.LowStockThreshold))
	}
	return resp, nil
}

// ListLowStock pages through active products at or below threshold; a
// threshold of zero or less uses the configured one.
func (s *productService) ListLowStock(ctx context.Context, threshold, page, pageSize int) (*ProductListResponse, error) {
	if threshold <= 0 {
		threshold = s.opts.LowStockThreshold
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	active := true
	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		Active:            &active,
		LowStockThreshold: threshold,
		Page:              page,
		PageSize:          pageSize,
	})
	if err != nil {
		return nil, err
	}
	resp := &ProductListResponse{
		Items:    make([]ProductResponse, 0, len(products)),
		Total:    total,
		Page:     max(page, 1),
		PageSize: min(pageSize, 200),
	}
	for i := range products {
		resp.Items = append(resp.Items, toProductResponse(&products[i], threshold))
	}
	return resp, nil
}

func (s *productService) AddStock(ctx context.Context, actor Actor, id uuid.UUID, req StockChangeRequest) (*StockChangeResponse, error) {
	return s.changeStock(ctx, actor, id, req, model.StockAdded)
}

func (s *productService) RemoveStock(ctx context.Context, actor Actor, id uuid.UUID, req StockChangeRequest) (*StockChangeResponse, error) {
	return s.changeStock(ctx, actor, id, req, model.StockRemoved)
}

// changeStock updates the quantity and appends the history row in one
// transaction. The stock write is a compare-and-set on the value read.
func (s *productService) changeStock(ctx context.Context, actor Actor, id uuid.UUID, req StockChangeRequest, changeType model.StockChangeType) (*StockChangeResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		product *model.Product
		history *model.StockHistory
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		historyRepo := s.historyRepo.WithTx(tx)

		var err error
		product, err = productRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return apperror.Conflict("product '" + product.ID.String() + "' is inactive")
		}

		before := product.StockQuantity
		switch changeType {
		case model.StockAdded:
			if err := product.AddStock(req.Quantity); err != nil {
				return err
			}
			history, err = model.NewStockAddition(product.ID, req.Quantity, product.StockQuantity, req.Reason, actor.UserID)
		case model.StockRemoved:
			if err := product.RemoveStock(req.Quantity); err != nil {
				return err
			}
			history, err = model.NewStockRemoval(product.ID, req.Quantity, product.StockQuantity, req.Reason, actor.UserID)
		default:
			return apperror.Invalid("unknown stock change type '%s'", changeType)
		}
		if err != nil {
			return err
		}

		if err := productRepo.CompareAndSetStock(ctx, product.ID, before, product.StockQuantity, actor.ID()); err != nil {
			return err
		}
		product.UpdatedBy = actor.ID()
		return historyRepo.Create(ctx, history)
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInsufficientStock {
			s.log.Warn("stock removal rejected", "product_id", id, "requested", req.Quantity, "by", actor.Email)
		}
		return nil, err
	}

	resp := &StockChangeResponse{
		Product: toProductResponse(product, s.opts.LowStockThreshold),
		History: toStockHistoryResponse(history),
	}

	action := "stock_added"
	if changeType == model.StockRemoved {
		action = "stock_removed"
	}
	s.log.Info("stock changed",
		"product_id", product.ID,
		"action", action,
		"quantity", req.Quantity,
		"stock_after", product.StockQuantity,
		"by", actor.Email,
	)
	s.publish(actor, "stock_update", action, resp, "")
	if changeType == model.StockRemoved && product.IsLowStock(s.opts.LowStockThreshold) {
		s.publish(actor, "stock_alert", "low_stock", resp.Product, "Product "+product.Name+" is running low")
	}
	return resp, nil
}

func (s *productService) GetStockHistory(ctx context.Context, id uuid.UUID, limit int) ([]StockHistoryResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	histories, err := s.historyRepo.ListByProduct(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	items := make([]StockHistoryResponse, 0, len(histories))
	for i := range histories {
		items = append(items, toStockHistoryResponse(&histories[i]))
	}
	return items, nil
}

func (s *productService) DeactivateProduct(ctx context.Context, actor Actor, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, actor, id, false)
}

func (s *productService) ActivateProduct(ctx context.Context, actor Actor, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, actor, id, true)
}

func (s *productService) setActive(ctx context.Context, actor Actor, id uuid.UUID, active bool) (*ProductResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	action := "product_activated"
	if active {
		product.Activate(actor.ID())
	} else {
		action = "product_deactivated"
		if err := product.Deactivate(actor.ID()); err != nil {
			return nil, err
		}
	}
	if err := s.productRepo.SetActive(ctx, product.ID, active, actor.ID()); err != nil {
		return nil, err
	}

	s.log.Info("product status changed", "product_id", product.ID, "active", active, "by", actor.Email)
	resp := toProductResponse(product, s.opts.LowStockThreshold)
	s.publish(actor, "product_update", action, resp, "")
	return &resp, nil
}

func (s *productService) money(amount decimal.Decimal, currency string) (valueobject.Money, error) {
	if strings.TrimSpace(currency) == "" {
		currency = s.opts.DefaultCurrency
	}
	return valueobject.NewMoney(amount, currency)
}

func (s *productService) publish(actor Actor, eventType, action string, data interface{}, message string) {
	if s.events == nil {
		return
	}
	s.events.Publish(ws.Event{
		Type:    eventType,
		Action:  action,
		Data:    data,
		User:    actor.eventUser(),
		Message: message,
	})
}
