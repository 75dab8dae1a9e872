package service

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"paintflow-api/internal/model"
	"paintflow-api/pkg/clock"

	"gorm.io/gorm"
)

// InventoryService owns the stock ledger: every read and mutation of
// StockLevel rows outside transfer approval goes through it.
type InventoryService struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewInventoryService creates the stock ledger service
func NewInventoryService(db *gorm.DB, clk clock.Clock) *InventoryService {
	return &InventoryService{db: db, clock: clk}
}

// AdjustResult is the outcome of a stock adjustment
type AdjustResult struct {
	NewStock int    `json:"new_stock"`
	Message  string `json:"message"`
}

// Adjust applies a signed delta to the ledger row for (warehouse, sku).
// A first positive adjustment creates the row with default reorder point and
// capacity; a negative delta against a missing row fails with ErrNotFound,
// and a delta that would take stock below zero fails with
// ErrInsufficientStock. Runs as one transaction so concurrent adjustments
// cannot produce a negative balance.
func (s *InventoryService) Adjust(warehouseID, skuID uint, delta int, reason string) (*AdjustResult, error) {
	var newStock int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var level model.StockLevel
		err := forUpdate(tx).
			Where("warehouse_id = ? AND sku_id = ?", warehouseID, skuID).
			First(&level).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if delta < 0 {
				return fmt.Errorf("%w: no inventory record to decrease", ErrNotFound)
			}
			level = model.StockLevel{
				WarehouseID:  warehouseID,
				SKUID:        skuID,
				CurrentStock: delta,
				ReorderPoint: 50,
				MaxCapacity:  5000,
				DaysOfCover:  0,
				LastUpdated:  s.clock.Now(),
			}
			if err := tx.Create(&level).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			next := level.CurrentStock + delta
			if next < 0 {
				return fmt.Errorf("%w: insufficient stock for adjustment", ErrInsufficientStock)
			}
			level.CurrentStock = next
			level.LastUpdated = s.clock.Now()
			if err := tx.Save(&level).Error; err != nil {
				return err
			}
		}

		newStock = level.CurrentStock
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AdjustResult{
		NewStock: newStock,
		Message:  fmt.Sprintf("Inventory adjusted by %+d units. Reason: %s", delta, reason),
	}, nil
}

// Level returns the ledger row for (warehouse, sku), or ErrNotFound
func (s *InventoryService) Level(warehouseID, skuID uint) (*model.StockLevel, error) {
	var level model.StockLevel
	err := s.db.Where("warehouse_id = ? AND sku_id = ?", warehouseID, skuID).First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: inventory record", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// WarehouseMapEntry is one warehouse's aggregate status for the network map
type WarehouseMapEntry struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Capacity      int     `json:"capacity"`
	TotalStock    int     `json:"total_stock"`
	CapacityPct   float64 `json:"capacity_pct"`
	CriticalSKUs  int     `json:"critical_skus"`
	LowSKUs       int     `json:"low_skus"`
	OverstockSKUs int     `json:"overstock_skus"`
	Status        string  `json:"status"`
	RevenueAtRisk float64 `json:"revenue_at_risk"`
}

// WarehouseMapData aggregates every warehouse's inventory status. Revenue at
// risk uses the 7-day alerting horizon on levels below AlertPolicy's low
// threshold.
func (s *InventoryService) WarehouseMapData() ([]WarehouseMapEntry, error) {
	var warehouses []model.Warehouse
	if err := s.db.Order("id").Find(&warehouses).Error; err != nil {
		return nil, err
	}

	result := make([]WarehouseMapEntry, 0, len(warehouses))
	for _, wh := range warehouses {
		var levels []model.StockLevel
		if err := s.db.Where("warehouse_id = ?", wh.ID).Find(&levels).Error; err != nil {
			return nil, err
		}

		var totalStock, critical, low, overstock int
		var atRisk float64
		for _, l := range levels {
			totalStock += l.CurrentStock
			switch {
			case l.DaysOfCover < DealerReorderPolicy.CriticalBelow:
				critical++
			case l.DaysOfCover < DealerReorderPolicy.LowBelow:
				low++
			}
			if l.DaysOfCover > DealerReorderPolicy.OverstockAbove {
				overstock++
			}

			if l.DaysOfCover < AlertPolicy.LowBelow {
				var sku model.SKU
				if err := s.db.First(&sku, l.SKUID).Error; err == nil {
					atRisk += RevenueAtRisk(l.CurrentStock, l.DaysOfCover, 7, sku.MRP)
				}
			}
		}

		status := StockHealthy
		switch {
		case critical > 0:
			status = StockCritical
		case low > 2:
			status = StockLow
		case overstock > 2:
			status = StockOverstocked
		}

		capacity := wh.CapacityLitres
		if capacity < 1 {
			capacity = 1
		}

		result = append(result, WarehouseMapEntry{
			ID:            wh.ID,
			Name:          wh.Name,
			Code:          wh.Code,
			City:          wh.City,
			State:         wh.State,
			Latitude:      wh.Latitude,
			Longitude:     wh.Longitude,
			Capacity:      wh.CapacityLitres,
			TotalStock:    totalStock,
			CapacityPct:   round1(float64(totalStock) / float64(capacity) * 100),
			CriticalSKUs:  critical,
			LowSKUs:       low,
			OverstockSKUs: overstock,
			Status:        status,
			RevenueAtRisk: math.Round(atRisk),
		})
	}

	return result, nil
}

// WarehouseStockRow is one inventory line in the warehouse detail view
type WarehouseStockRow struct {
	ID           uint    `json:"id"`
	SKUID        uint    `json:"sku_id"`
	SKUCode      string  `json:"sku_code"`
	ShadeName    string  `json:"shade_name"`
	ShadeHex     string  `json:"shade_hex"`
	Size         string  `json:"size"`
	CurrentStock int     `json:"current_stock"`
	ReorderPoint int     `json:"reorder_point"`
	DaysOfCover  float64 `json:"days_of_cover"`
	Status       string  `json:"status"`
}

// WarehouseInventory returns detailed rows for one warehouse, lowest cover
// first
func (s *InventoryService) WarehouseInventory(warehouseID uint) ([]WarehouseStockRow, error) {
	var levels []model.StockLevel
	if err := s.db.Where("warehouse_id = ?", warehouseID).Find(&levels).Error; err != nil {
		return nil, err
	}

	result := make([]WarehouseStockRow, 0, len(levels))
	for _, level := range levels {
		row := WarehouseStockRow{
			ID:           level.ID,
			SKUID:        level.SKUID,
			CurrentStock: level.CurrentStock,
			ReorderPoint: level.ReorderPoint,
			DaysOfCover:  level.DaysOfCover,
			Status:       DealerReorderPolicy.Classify(level.DaysOfCover),
		}

		var sku model.SKU
		if err := s.db.Preload("Shade").First(&sku, level.SKUID).Error; err == nil {
			row.SKUCode = sku.SKUCode
			row.Size = sku.Size
			if sku.Shade != nil {
				row.ShadeName = sku.Shade.ShadeName
				row.ShadeHex = sku.Shade.HexColor
			}
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DaysOfCover < result[j].DaysOfCover
	})
	return result, nil
}

// DeadStockRow is one excess-inventory line
type DeadStockRow struct {
	Warehouse      string  `json:"warehouse"`
	WarehouseCity  string  `json:"warehouse_city"`
	SKUCode        string  `json:"sku_code"`
	ShadeName      string  `json:"shade_name"`
	ShadeHex       string  `json:"shade_hex"`
	Size           string  `json:"size"`
	CurrentStock   int     `json:"current_stock"`
	DaysOfCover    float64 `json:"days_of_cover"`
	CapitalLocked  float64 `json:"capital_locked"`
	Recommendation string  `json:"recommendation"`
}

// DeadStock lists levels with more than 90 days of cover, worst first
func (s *InventoryService) DeadStock() ([]DeadStockRow, error) {
	var levels []model.StockLevel
	if err := s.db.Where("days_of_cover > ?", DealerReorderPolicy.OverstockAbove).Find(&levels).Error; err != nil {
		return nil, err
	}

	result := make([]DeadStockRow, 0, len(levels))
	for _, level := range levels {
		row := DeadStockRow{
			CurrentStock: level.CurrentStock,
			DaysOfCover:  level.DaysOfCover,
		}

		var wh model.Warehouse
		if err := s.db.First(&wh, level.WarehouseID).Error; err == nil {
			row.Warehouse = wh.Name
			row.WarehouseCity = wh.City
		}

		var sku model.SKU
		if err := s.db.Preload("Shade").First(&sku, level.SKUID).Error; err == nil {
			row.SKUCode = sku.SKUCode
			row.Size = sku.Size
			row.CapitalLocked = math.Round(float64(level.CurrentStock) * sku.UnitCost)
			if sku.Shade != nil {
				row.ShadeName = sku.Shade.ShadeName
				row.ShadeHex = sku.Shade.HexColor
			}
		}

		if level.DaysOfCover > 120 {
			row.Recommendation = "Transfer to high-demand warehouse"
		} else {
			row.Recommendation = "Run promotion"
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DaysOfCover > result[j].DaysOfCover
	})
	return result, nil
}
