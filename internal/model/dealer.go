package model

import (
	"time"
)

// Dealer order statuses
const (
	OrderPlaced    = "placed"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Order sources
const (
	OrderSourceManual = "manual"
	OrderSourceAI     = "ai_recommendation"
)

// OrderTransitions is the dealer order state machine. Delivered and
// cancelled are terminal.
var OrderTransitions = map[string][]string{
	OrderPlaced:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
	OrderDelivered: {},
	OrderCancelled: {},
}

// Dealer represents a distribution partner attached to a warehouse
type Dealer struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"type:varchar(255);not null"`
	City             string    `json:"city" gorm:"type:varchar(100)"`
	State            string    `json:"state" gorm:"type:varchar(100)"`
	Tier             string    `json:"tier" gorm:"type:varchar(20)"`
	WarehouseID      uint      `json:"warehouse_id" gorm:"index;not null"`
	RegionID         uint      `json:"region_id" gorm:"index"`
	PerformanceScore float64   `json:"performance_score" gorm:"default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DealerOrder represents a dealer's restock order for one SKU.
// SavingsAmount is computed at creation time and immutable thereafter.
type DealerOrder struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	DealerID      uint      `json:"dealer_id" gorm:"not null;index"`
	SKUID         uint      `json:"sku_id" gorm:"column:sku_id;not null;index"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	OrderDate     time.Time `json:"order_date" gorm:"index"`
	Status        string    `json:"status" gorm:"type:varchar(20);default:placed;index"`
	IsAISuggested bool      `json:"is_ai_suggested" gorm:"default:false"`
	OrderSource   string    `json:"order_source" gorm:"type:varchar(30);default:manual"`
	SavingsAmount float64   `json:"savings_amount" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AllowedTransitions returns the statuses this order may move to
func (o *DealerOrder) AllowedTransitions() []string {
	return OrderTransitions[o.Status]
}
