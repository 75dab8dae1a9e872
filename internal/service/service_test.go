package service

import (
	"context"
	"testing"
	"time"

	"paintflow-api/internal/forecast"
	"paintflow-api/internal/model"
	"paintflow-api/pkg/clock"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Mid-March keeps the fixture clear of the festival and monsoon
// recommendation windows.
var testNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func testClock() clock.Fixed {
	return clock.Fixed{Instant: testNow}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Every pooled connection to :memory: would get its own database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Region{},
		&model.Warehouse{},
		&model.Product{},
		&model.Shade{},
		&model.SKU{},
		&model.StockLevel{},
		&model.Transfer{},
		&model.Dealer{},
		&model.DealerOrder{},
		&model.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

type stubForecaster struct {
	demand map[uint]float64
	err    error
}

func (f *stubForecaster) Forecast(_ context.Context, skuID, _ uint, _ int) ([]forecast.Point, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []forecast.Point{{Predicted: f.demand[skuID]}}, nil
}

type stubNotifier struct {
	calls int
}

func (n *stubNotifier) Notify(_ []uint, _, _, _, _, _ string) {
	n.calls++
}

func seedWarehouse(t *testing.T, db *gorm.DB, code string) *model.Warehouse {
	t.Helper()
	wh := &model.Warehouse{
		Name:           "Warehouse " + code,
		Code:           code,
		City:           "Mumbai",
		State:          "Maharashtra",
		RegionID:       1,
		CapacityLitres: 10000,
	}
	if err := db.Create(wh).Error; err != nil {
		t.Fatalf("failed to seed warehouse: %v", err)
	}
	return wh
}

func seedSKU(t *testing.T, db *gorm.DB, skuCode, shadeName string) *model.SKU {
	t.Helper()
	product := &model.Product{Name: "Silk Emulsion", Category: "Interior"}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	shade := &model.Shade{
		ProductID: product.ID,
		ShadeCode: skuCode + "-S",
		ShadeName: shadeName,
		HexColor:  "#aabbcc",
	}
	if err := db.Create(shade).Error; err != nil {
		t.Fatalf("failed to seed shade: %v", err)
	}
	sku := &model.SKU{
		ShadeID:  shade.ID,
		SKUCode:  skuCode,
		Size:     "10L",
		UnitCost: 200,
		MRP:      300,
	}
	if err := db.Create(sku).Error; err != nil {
		t.Fatalf("failed to seed sku: %v", err)
	}
	return sku
}

func seedStock(t *testing.T, db *gorm.DB, warehouseID, skuID uint, stock int, cover float64) *model.StockLevel {
	t.Helper()
	level := &model.StockLevel{
		WarehouseID:  warehouseID,
		SKUID:        skuID,
		CurrentStock: stock,
		ReorderPoint: 50,
		MaxCapacity:  5000,
		DaysOfCover:  cover,
		LastUpdated:  testNow,
	}
	if err := db.Create(level).Error; err != nil {
		t.Fatalf("failed to seed stock level: %v", err)
	}
	return level
}

func seedDealer(t *testing.T, db *gorm.DB, warehouseID uint) *model.Dealer {
	t.Helper()
	dealer := &model.Dealer{
		Name:        "Sharma Paints",
		City:        "Mumbai",
		State:       "Maharashtra",
		Tier:        "gold",
		WarehouseID: warehouseID,
		RegionID:    1,
	}
	if err := db.Create(dealer).Error; err != nil {
		t.Fatalf("failed to seed dealer: %v", err)
	}
	return dealer
}
