package models

// Product is a catalog entry owned by the product service.
type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"size:255;not null;index"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	Category    string  `json:"category" gorm:"size:100;index"`
	Stock       int     `json:"stock" gorm:"default:0"`
	Image       string  `json:"image" gorm:"size:512"`
	CreatedBy   string  `json:"createdBy" gorm:"type:uuid;not null;index"`
}
