package service

import (
	"errors"
	"fmt"
	"math"

	"paintflow-api/internal/model"
	"paintflow-api/pkg/clock"

	"gorm.io/gorm"
)

// OrderService manages the dealer order lifecycle
type OrderService struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewOrderService creates the order lifecycle service
func NewOrderService(db *gorm.DB, clk clock.Clock) *OrderService {
	return &OrderService{db: db, clock: clk}
}

// PlaceResult is the outcome of a manual order placement
type PlaceResult struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// Place records a manual dealer order
func (s *OrderService) Place(dealerID, skuID uint, quantity int) (*PlaceResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: order quantity must be positive", ErrInvalidQuantity)
	}

	order := model.DealerOrder{
		DealerID:      dealerID,
		SKUID:         skuID,
		Quantity:      quantity,
		OrderDate:     s.clock.Now(),
		Status:        model.OrderPlaced,
		IsAISuggested: false,
		OrderSource:   model.OrderSourceManual,
		SavingsAmount: 0,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}

	return &PlaceResult{OrderID: order.ID, Status: order.Status}, nil
}

// StatusResult is the outcome of an order status transition
type StatusResult struct {
	OrderID   uint   `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Message   string `json:"message"`
}

// UpdateStatus moves an order through the
// placed -> confirmed -> shipped -> delivered (or -> cancelled) machine
func (s *OrderService) UpdateStatus(orderID, dealerID uint, newStatus string) (*StatusResult, error) {
	var result *StatusResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order model.DealerOrder
		err := forUpdate(tx).
			Where("id = ? AND dealer_id = ?", orderID, dealerID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order", ErrNotFound)
		}
		if err != nil {
			return err
		}

		allowed := order.AllowedTransitions()
		ok := false
		for _, status := range allowed {
			if status == newStatus {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: cannot transition from '%s' to '%s' (allowed: %v)",
				ErrInvalidState, order.Status, newStatus, allowed)
		}

		oldStatus := order.Status
		order.Status = newStatus
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		result = &StatusResult{
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Message:   fmt.Sprintf("Order #%d updated to %s", order.ID, newStatus),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OrderDetail is the full view of one order
type OrderDetail struct {
	ID                 uint     `json:"id"`
	DealerID           uint     `json:"dealer_id"`
	SKUID              uint     `json:"sku_id"`
	SKUCode            string   `json:"sku_code"`
	Size               string   `json:"size"`
	ShadeName          string   `json:"shade_name"`
	ShadeHex           string   `json:"shade_hex"`
	Quantity           int      `json:"quantity"`
	OrderDate          string   `json:"order_date"`
	Status             string   `json:"status"`
	IsAISuggested      bool     `json:"is_ai_suggested"`
	OrderSource        string   `json:"order_source"`
	SavingsAmount      float64  `json:"savings_amount"`
	MRP                float64  `json:"mrp"`
	TotalValue         float64  `json:"total_value"`
	AllowedTransitions []string `json:"allowed_transitions"`
}

// Detail returns one order scoped to its dealer
func (s *OrderService) Detail(orderID, dealerID uint) (*OrderDetail, error) {
	var order model.DealerOrder
	err := s.db.Where("id = ? AND dealer_id = ?", orderID, dealerID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{
		ID:                 order.ID,
		DealerID:           order.DealerID,
		SKUID:              order.SKUID,
		Quantity:           order.Quantity,
		OrderDate:          order.OrderDate.Format("2006-01-02T15:04:05Z07:00"),
		Status:             order.Status,
		IsAISuggested:      order.IsAISuggested,
		OrderSource:        order.OrderSource,
		SavingsAmount:      order.SavingsAmount,
		AllowedTransitions: order.AllowedTransitions(),
	}

	var sku model.SKU
	if err := s.db.Preload("Shade").First(&sku, order.SKUID).Error; err == nil {
		detail.SKUCode = sku.SKUCode
		detail.Size = sku.Size
		detail.MRP = sku.MRP
		detail.TotalValue = math.Round(float64(order.Quantity)*sku.MRP*100) / 100
		if sku.Shade != nil {
			detail.ShadeName = sku.Shade.ShadeName
			detail.ShadeHex = sku.Shade.HexColor
		}
	}

	return detail, nil
}

// OrderSummary is one order line in a search result
type OrderSummary struct {
	ID            uint    `json:"id"`
	SKUID         uint    `json:"sku_id"`
	SKUCode       string  `json:"sku_code"`
	ShadeName     string  `json:"shade_name"`
	ShadeHex      string  `json:"shade_hex"`
	Size          string  `json:"size"`
	Quantity      int     `json:"quantity"`
	OrderDate     string  `json:"order_date"`
	Status        string  `json:"status"`
	IsAISuggested bool    `json:"is_ai_suggested"`
	SavingsAmount float64 `json:"savings_amount"`
}

// SearchResult is a paginated order listing
type SearchResult struct {
	Orders  []OrderSummary `json:"orders"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// Search lists a dealer's orders, newest first, with optional status filter
func (s *OrderService) Search(dealerID uint, status string, page, perPage int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := s.db.Model(&model.DealerOrder{}).Where("dealer_id = ?", dealerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []model.DealerOrder
	err := query.
		Order("order_date desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summary := OrderSummary{
			ID:            order.ID,
			SKUID:         order.SKUID,
			Quantity:      order.Quantity,
			OrderDate:     order.OrderDate.Format("2006-01-02T15:04:05Z07:00"),
			Status:        order.Status,
			IsAISuggested: order.IsAISuggested,
			SavingsAmount: order.SavingsAmount,
		}
		var sku model.SKU
		if err := s.db.Preload("Shade").First(&sku, order.SKUID).Error; err == nil {
			summary.SKUCode = sku.SKUCode
			summary.Size = sku.Size
			if sku.Shade != nil {
				summary.ShadeName = sku.Shade.ShadeName
				summary.ShadeHex = sku.Shade.HexColor
			}
		}
		summaries = append(summaries, summary)
	}

	return &SearchResult{Orders: summaries, Total: total, Page: page, PerPage: perPage}, nil
}
