package models

// UserProfile is the extended profile record owned by the user service, keyed
// by the auth service's user id. Created lazily on first access.
type UserProfile struct {
	BaseModel
	UserID      string `json:"userId" gorm:"uniqueIndex;type:uuid;not null"`
	FirstName   string `json:"firstName" gorm:"size:100"`
	LastName    string `json:"lastName" gorm:"size:100"`
	PhoneNumber string `json:"phoneNumber" gorm:"size:30"`
	Address     JSONB  `json:"address" gorm:"type:jsonb"`
	Preferences JSONB  `json:"preferences" gorm:"type:jsonb"`
}

// DefaultPreferences mirrors the schema defaults applied when a profile is
// created without explicit preferences.
func DefaultPreferences() JSONB {
	return JSONB{
		"theme":         "light",
		"notifications": true,
	}
}
