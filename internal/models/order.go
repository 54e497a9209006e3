// internal/models/order.go
package models

type Order struct {
	BaseModel
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	Status         OrderStatus    `json:"status" gorm:"type:varchar(20);not null;default:'unconfirmed';index"`
	DeliveryMethod DeliveryMethod `json:"delivery_method,omitempty" gorm:"type:varchar(20)"`
	Address        string         `json:"address,omitempty" gorm:"size:500"`

	// Relationships
	User  User        `json:"-" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	BaseModel
	OrderID  uint `json:"order_id" gorm:"not null;index"`
	SKUID    uint `json:"sku_id" gorm:"column:sku_id;not null;index"`
	Quantity int  `json:"quantity" gorm:"not null"`

	// Relationships
	ProductStock ProductStock `json:"-" gorm:"foreignKey:SKUID;references:SKUID"`
}
