package models

// Order is owned by the order service. Item name/price/imageUrl are
// snapshotted from the product service at creation time and never updated,
// so later catalog changes do not rewrite past orders.
type Order struct {
	BaseModel
	UserID          string        `json:"userId" gorm:"index;type:uuid;not null"`
	Items           []OrderItem   `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     float64       `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	ShippingAddress JSONB         `json:"shippingAddress" gorm:"type:jsonb"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" gorm:"type:varchar(20);not null"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);default:'Pending'"`
	OrderStatus     OrderStatus   `json:"orderStatus" gorm:"type:varchar(20);default:'Processing';index"`
}

type OrderItem struct {
	BaseModel
	OrderID   string  `json:"-" gorm:"type:uuid;not null;index"`
	ProductID string  `json:"productId" gorm:"type:uuid;not null"`
	Name      string  `json:"name" gorm:"size:255;not null"`
	Price     float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	ImageURL  string  `json:"imageUrl" gorm:"size:512"`
}

// CanCancel reports whether the order is still in the only state that allows
// cancellation.
func (o *Order) CanCancel() bool {
	return o.OrderStatus == OrderStatusProcessing
}
