package model

import "time"

// Role — закрытый набор ролей пользователя.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// ParseRole validates a role string against the closed set.
// An empty string defaults to RoleClient.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleAdmin:
		return Role(s), true
	case "":
		return RoleClient, true
	default:
		return "", false
	}
}

// User — учётная запись. Email хранится в нижнем регистре, хеш пароля наружу не отдаём.
type User struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(16);not null;default:client" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
