package model

import "time"

// Category — закрытый набор категорий evidence.
type Category string

const (
	CategoryPolicy  Category = "policy"
	CategoryDiagram Category = "diagram"
	CategoryDoc     Category = "doc"
	CategoryOther   Category = "other"
)

// ParseCategory validates a category string. Empty defaults to CategoryOther.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryPolicy, CategoryDiagram, CategoryDoc, CategoryOther:
		return Category(s), true
	case "":
		return CategoryOther, true
	default:
		return "", false
	}
}

// Evidence — метаданные одного загруженного файла. OwnerID выставляется при
// создании и больше не меняется.
type Evidence struct {
	ID       string   `gorm:"primaryKey;type:uuid" json:"id"`
	Title    string   `gorm:"not null" json:"title"`
	Category Category `gorm:"type:varchar(16);not null;default:other" json:"category"`

	Filename string `gorm:"not null" json:"filename"`
	Path     string `gorm:"not null" json:"path"`
	Size     int64  `json:"size"`

	OwnerID int64 `gorm:"not null;index" json:"uploadedBy"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
