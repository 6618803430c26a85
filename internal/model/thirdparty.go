package model

import "time"

// ThirdParty — запись о вендоре/контрагенте для комплаенса. Role здесь —
// свободный текст (должность контакта), не связан с User.Role.
type ThirdParty struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Name string `gorm:"not null" json:"name"`

	Email     string  `json:"email"`
	Company   string  `json:"company"`
	Role      string  `json:"role"`
	Industry  string  `gorm:"index" json:"industry"`
	RiskScore float64 `gorm:"not null;default:0" json:"riskScore"`

	CreatedBy int64 `gorm:"index" json:"createdBy"`
	Creator   *User `gorm:"foreignKey:CreatedBy" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
