package model

import (
	"time"

	"gorm.io/gorm"
)

// CategoryWaterproofing drives the monsoon-season recommendation rule
const CategoryWaterproofing = "Waterproofing"

// Product represents a paint product line
type Product struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	Category      string         `json:"category" gorm:"type:varchar(100);index"`
	Finish        string         `json:"finish" gorm:"type:varchar(100)"`
	PricePerLitre float64        `json:"price_per_litre"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// Shade represents a colour variant of a product
type Shade struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ProductID   uint           `json:"product_id" gorm:"index;not null"`
	ShadeCode   string         `json:"shade_code" gorm:"type:varchar(20);uniqueIndex"`
	ShadeName   string         `json:"shade_name" gorm:"type:varchar(100);not null"`
	HexColor    string         `json:"hex_color" gorm:"type:varchar(7)"`
	ShadeFamily string         `json:"shade_family" gorm:"type:varchar(50);index"`
	IsTrending  bool           `json:"is_trending" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// SKU represents a sellable unit: a shade in a specific pack size
type SKU struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ShadeID   uint           `json:"shade_id" gorm:"index;not null"`
	SKUCode   string         `json:"sku_code" gorm:"type:varchar(50);uniqueIndex;not null"`
	Size      string         `json:"size" gorm:"type:varchar(20)"`
	UnitCost  float64        `json:"unit_cost"`
	MRP       float64        `json:"mrp"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Shade *Shade `json:"shade,omitempty" gorm:"foreignKey:ShadeID"`
}
