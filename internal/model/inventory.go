package model

import (
	"time"
)

// Transfer statuses. COMPLETED and REJECTED are terminal.
const (
	TransferPending   = "PENDING"
	TransferApproved  = "APPROVED"
	TransferInTransit = "IN_TRANSIT"
	TransferCompleted = "COMPLETED"
	TransferRejected  = "REJECTED"
)

// Region groups warehouses and dealers for demand forecasting
type Region struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Warehouse represents a physical stocking location
type Warehouse struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"type:varchar(255);not null"`
	Code           string    `json:"code" gorm:"type:varchar(20);uniqueIndex;not null"`
	City           string    `json:"city" gorm:"type:varchar(100)"`
	State          string    `json:"state" gorm:"type:varchar(100)"`
	RegionID       uint      `json:"region_id" gorm:"index"`
	CapacityLitres int       `json:"capacity_litres"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StockLevel is the authoritative ledger row for one SKU in one warehouse.
// CurrentStock must never go negative; DaysOfCover is a derived sell-through
// estimate that is recomputed on mutation and only ever used for
// classification, never for correctness decisions.
type StockLevel struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	WarehouseID  uint      `json:"warehouse_id" gorm:"not null;uniqueIndex:idx_warehouse_sku"`
	SKUID        uint      `json:"sku_id" gorm:"column:sku_id;not null;uniqueIndex:idx_warehouse_sku"`
	CurrentStock int       `json:"current_stock" gorm:"not null;default:0"`
	ReorderPoint int       `json:"reorder_point" gorm:"default:50"`
	MaxCapacity  int       `json:"max_capacity" gorm:"default:5000"`
	DaysOfCover  float64   `json:"days_of_cover" gorm:"default:0"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Transfer represents an inter-warehouse stock movement request. Stock is
// moved at approval time, not completion (see TransferService).
type Transfer struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	FromWarehouseID uint      `json:"from_warehouse_id" gorm:"not null;index"`
	ToWarehouseID   uint      `json:"to_warehouse_id" gorm:"not null;index"`
	SKUID           uint      `json:"sku_id" gorm:"column:sku_id;not null;index"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	Status          string    `json:"status" gorm:"type:varchar(20);default:PENDING;index"`
	Reason          string    `json:"reason" gorm:"type:text"`
	RecommendedAt   time.Time `json:"recommended_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsTerminal reports whether no further status transition is allowed
func (t *Transfer) IsTerminal() bool {
	return t.Status == TransferCompleted || t.Status == TransferRejected
}
