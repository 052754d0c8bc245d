package models

// Cart is the per-user shopping cart owned by the cart service. Created
// lazily on first access; one cart per user id.
type Cart struct {
	BaseModel
	UserID string     `json:"userId" gorm:"index;type:uuid;not null"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem snapshots product name/price/image at add time.
type CartItem struct {
	BaseModel
	CartID    string  `json:"-" gorm:"type:uuid;not null;index"`
	ProductID string  `json:"productId" gorm:"type:uuid;not null"`
	Name      string  `json:"name" gorm:"size:255;not null"`
	Price     float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity  int     `json:"quantity" gorm:"not null;default:1"`
	Image     string  `json:"image" gorm:"size:512"`
}

// CartTotals are derived from the items on every read, never stored.
type CartTotals struct {
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"itemCount"`
}

func (c *Cart) CalculateTotals() CartTotals {
	var totals CartTotals
	for _, item := range c.Items {
		totals.Subtotal += item.Price * float64(item.Quantity)
		totals.ItemCount += item.Quantity
	}
	return totals
}
