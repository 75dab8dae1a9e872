package service

import (
	"errors"
	"testing"

	"paintflow-api/internal/model"
)

func TestAdjustAppliesDelta(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	sku := seedSKU(t, db, "SKU-1", "Ocean Blue")
	seedStock(t, db, wh.ID, sku.ID, 100, 20)

	result, err := svc.Adjust(wh.ID, sku.ID, 25, "restock")
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if result.NewStock != 125 {
		t.Errorf("NewStock = %d, want 125", result.NewStock)
	}

	result, err = svc.Adjust(wh.ID, sku.ID, -30, "damage write-off")
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if result.NewStock != 95 {
		t.Errorf("NewStock = %d, want 95", result.NewStock)
	}

	level, err := svc.Level(wh.ID, sku.ID)
	if err != nil {
		t.Fatalf("Level failed: %v", err)
	}
	if level.CurrentStock != 95 {
		t.Errorf("persisted stock = %d, want 95", level.CurrentStock)
	}
}

func TestAdjustCreatesRowOnFirstPositiveDelta(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	sku := seedSKU(t, db, "SKU-1", "Ocean Blue")

	result, err := svc.Adjust(wh.ID, sku.ID, 40, "initial stock")
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if result.NewStock != 40 {
		t.Errorf("NewStock = %d, want 40", result.NewStock)
	}

	level, err := svc.Level(wh.ID, sku.ID)
	if err != nil {
		t.Fatalf("Level failed: %v", err)
	}
	if level.ReorderPoint != 50 || level.MaxCapacity != 5000 {
		t.Errorf("defaults = (%d, %d), want (50, 5000)", level.ReorderPoint, level.MaxCapacity)
	}
}

func TestAdjustNegativeDeltaOnMissingRowFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	sku := seedSKU(t, db, "SKU-1", "Ocean Blue")

	_, err := svc.Adjust(wh.ID, sku.ID, -10, "shrinkage")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// No row may be created as a side effect of the failed decrease.
	var count int64
	db.Model(&model.StockLevel{}).
		Where("warehouse_id = ? AND sku_id = ?", wh.ID, sku.ID).
		Count(&count)
	if count != 0 {
		t.Errorf("stock rows = %d, want 0", count)
	}
}

func TestAdjustRejectsNegativeBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	sku := seedSKU(t, db, "SKU-1", "Ocean Blue")
	seedStock(t, db, wh.ID, sku.ID, 10, 5)

	_, err := svc.Adjust(wh.ID, sku.ID, -11, "oversell")
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	level, err := svc.Level(wh.ID, sku.ID)
	if err != nil {
		t.Fatalf("Level failed: %v", err)
	}
	if level.CurrentStock != 10 {
		t.Errorf("stock after rejected adjustment = %d, want 10", level.CurrentStock)
	}

	// Draining to exactly zero is allowed.
	result, err := svc.Adjust(wh.ID, sku.ID, -10, "full drain")
	if err != nil {
		t.Fatalf("Adjust to zero failed: %v", err)
	}
	if result.NewStock != 0 {
		t.Errorf("NewStock = %d, want 0", result.NewStock)
	}
}

func TestWarehouseInventorySortedByCover(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	skuA := seedSKU(t, db, "SKU-A", "Ocean Blue")
	skuB := seedSKU(t, db, "SKU-B", "Sunset Orange")
	skuC := seedSKU(t, db, "SKU-C", "Forest Green")
	seedStock(t, db, wh.ID, skuA.ID, 100, 25)
	seedStock(t, db, wh.ID, skuB.ID, 5, 1.5)
	seedStock(t, db, wh.ID, skuC.ID, 40, 10)

	rows, err := svc.WarehouseInventory(wh.ID)
	if err != nil {
		t.Fatalf("WarehouseInventory failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].SKUID != skuB.ID || rows[1].SKUID != skuC.ID || rows[2].SKUID != skuA.ID {
		t.Errorf("unexpected order: %v, %v, %v", rows[0].SKUID, rows[1].SKUID, rows[2].SKUID)
	}
	if rows[0].Status != StockCritical {
		t.Errorf("status = %q, want %q", rows[0].Status, StockCritical)
	}
	if rows[1].Status != StockLow {
		t.Errorf("status = %q, want %q", rows[1].Status, StockLow)
	}
	if rows[2].Status != StockHealthy {
		t.Errorf("status = %q, want %q", rows[2].Status, StockHealthy)
	}
}

// The raw SQL fragments across the services address the SKU foreign key as
// sku_id; the migrated schema must expose that exact column name.
func TestSKUColumnNameInMigratedSchema(t *testing.T) {
	db := newTestDB(t)
	wh := seedWarehouse(t, db, "WH-A")
	to := seedWarehouse(t, db, "WH-B")
	sku := seedSKU(t, db, "SKU-1", "Ocean Blue")
	dealer := seedDealer(t, db, wh.ID)
	seedStock(t, db, wh.ID, sku.ID, 100, 20)

	transfer := model.Transfer{
		FromWarehouseID: wh.ID, ToWarehouseID: to.ID, SKUID: sku.ID,
		Quantity: 10, Status: model.TransferPending,
	}
	if err := db.Create(&transfer).Error; err != nil {
		t.Fatalf("failed to seed transfer: %v", err)
	}
	order := model.DealerOrder{
		DealerID: dealer.ID, SKUID: sku.ID, Quantity: 5,
		OrderDate: testNow, Status: model.OrderPlaced,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}

	for _, table := range []interface{}{&model.StockLevel{}, &model.Transfer{}, &model.DealerOrder{}} {
		var count int64
		if err := db.Model(table).Where("sku_id = ?", sku.ID).Count(&count).Error; err != nil {
			t.Fatalf("%T sku_id clause failed: %v", table, err)
		}
		if count != 1 {
			t.Errorf("%T rows matching sku_id = %d, want 1", table, count)
		}
	}
}

func TestWarehouseMapDataStatusRollup(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	sku := seedSKU(t, db, "SKU-1", "Ocean Blue")
	seedStock(t, db, wh.ID, sku.ID, 2, 1)

	entries, err := svc.WarehouseMapData()
	if err != nil {
		t.Fatalf("WarehouseMapData failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Status != StockCritical {
		t.Errorf("status = %q, want %q", entry.Status, StockCritical)
	}
	if entry.CriticalSKUs != 1 {
		t.Errorf("critical SKUs = %d, want 1", entry.CriticalSKUs)
	}
	if entry.TotalStock != 2 {
		t.Errorf("total stock = %d, want 2", entry.TotalStock)
	}
	if entry.RevenueAtRisk <= 0 {
		t.Errorf("revenue at risk = %v, want > 0", entry.RevenueAtRisk)
	}
}

func TestWarehouseMapRevenueAtRiskRoundsToRupee(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	sku := seedSKU(t, db, "SKU-1", "Ocean Blue")
	db.Model(&model.SKU{}).Where("id = ?", sku.ID).Update("mrp", 299.9)
	seedStock(t, db, wh.ID, sku.ID, 5, 2)

	entries, err := svc.WarehouseMapData()
	if err != nil {
		t.Fatalf("WarehouseMapData failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	// 2.5 units/day * 5 days short * 299.9 = 3748.75, nearest rupee up.
	if entries[0].RevenueAtRisk != 3749 {
		t.Errorf("revenue at risk = %v, want 3749", entries[0].RevenueAtRisk)
	}
}

func TestDeadStockListsOverstockedLevels(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	skuA := seedSKU(t, db, "SKU-A", "Ocean Blue")
	skuB := seedSKU(t, db, "SKU-B", "Sunset Orange")
	seedStock(t, db, wh.ID, skuA.ID, 500, 150)
	seedStock(t, db, wh.ID, skuB.ID, 300, 95)

	rows, err := svc.DeadStock()
	if err != nil {
		t.Fatalf("DeadStock failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// Worst cover first.
	if rows[0].DaysOfCover != 150 {
		t.Errorf("first row cover = %v, want 150", rows[0].DaysOfCover)
	}
	if rows[0].Recommendation != "Transfer to high-demand warehouse" {
		t.Errorf("recommendation = %q", rows[0].Recommendation)
	}
	if rows[1].Recommendation != "Run promotion" {
		t.Errorf("recommendation = %q", rows[1].Recommendation)
	}
	if rows[0].CapitalLocked != 100000 {
		t.Errorf("capital locked = %v, want 100000", rows[0].CapitalLocked)
	}
}

func TestDeadStockCapitalLockedRoundsToRupee(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, testClock())
	wh := seedWarehouse(t, db, "WH-A")
	sku := seedSKU(t, db, "SKU-1", "Ocean Blue")
	db.Model(&model.SKU{}).Where("id = ?", sku.ID).Update("unit_cost", 199.95)
	seedStock(t, db, wh.ID, sku.ID, 3, 100)

	rows, err := svc.DeadStock()
	if err != nil {
		t.Fatalf("DeadStock failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	// 3 * 199.95 = 599.85 rounds up, not down.
	if rows[0].CapitalLocked != 600 {
		t.Errorf("capital locked = %v, want 600", rows[0].CapitalLocked)
	}
}
