package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a stocked item in the inventory.
// It belongs to exactly one category and is soft-deleted through Active.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description *string         `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null;default:0"`
	CategoryID  uint            `gorm:"not null;index"`
	Category    Category        `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Active      bool            `gorm:"not null;default:true"`
}

func (p *Product) TableName() string {
	return "products"
}

// ProductFilters are conjunctive. Nil fields do not filter; a zero Limit
// returns every match.
type ProductFilters struct {
	StockMin   *int
	PriceMax   *decimal.Decimal
	CategoryID *uint
	Active     *bool
	Offset     int
	Limit      int
}
