package service

import "github.com/Saumajitt/grc-dashboard/internal/model"

// CanManage — единая политика доступа к записи с владельцем: админ может всё,
// клиент — только свои записи. Набор ролей закрытый, всё незнакомое — отказ.
func CanManage(actor *model.User, ownerID int64) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleClient:
		return actor.ID == ownerID
	default:
		return false
	}
}
