package models

import (
	"time"
)

type Customer struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string  `gorm:"uniqueIndex;not null"     json:"email"`
	HashedPassword string  `gorm:"not null"                 json:"-"`
	FullName       string  `gorm:"not null"                 json:"full_name"`
	Orders         []Order `gorm:"foreignKey:CustomerID"    json:"-"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"index;not null"           json:"name"`
	Description string  `gorm:"not null"                 json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
}

type Order struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID  uint      `gorm:"index;not null"           json:"customer_id"`
	OrderDate   time.Time `gorm:"not null;autoCreateTime"  json:"order_date"`
	TotalAmount float64   `gorm:"not null"                 json:"total_amount"`
	Products    []Product `gorm:"many2many:order_products" json:"products"`
}

// OrderProduct is the order_products join row. The quantity column is
// migrated but order creation never writes it.
// TODO: accept per-line quantities in the create-order request and stop
// leaving the column at zero.
type OrderProduct struct {
	OrderID   uint `gorm:"primaryKey" json:"order_id"`
	ProductID uint `gorm:"primaryKey" json:"product_id"`
	Quantity  uint `json:"quantity"`
}
