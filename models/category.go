package models

// Category groups products. Names are unique across active and inactive
// categories; a category is deactivated, never deleted.
type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string   `gorm:"type:text"`
	Active      bool      `gorm:"not null;default:true"`
	Products    []Product `gorm:"foreignKey:CategoryID"`
}

func (c *Category) TableName() string {
	return "categories"
}
