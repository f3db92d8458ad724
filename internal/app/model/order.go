package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	// OrderStatusPending is the only status an order carries at creation.
	// No further transitions are implemented.
	OrderStatusPending OrderStatus = "pending"
)

type Order struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	TotalPrice float64        `gorm:"not null" json:"total_price"`
	Status     OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Address    string         `gorm:"type:text" json:"address"`
	Phone      string         `gorm:"type:varchar(30)" json:"phone"`
	Username   string         `gorm:"type:varchar(100)" json:"username"` // denormalized at creation time
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User       User        `gorm:"foreignKey:UserID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is an immutable order line. Price is the unit price snapshotted
// at commit time; later catalog price changes never touch it.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
