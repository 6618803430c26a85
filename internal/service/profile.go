package service

import (
	"context"

	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/repo"
)

// UserInfo — краткая карточка пользователя для join-полей профиля.
type UserInfo struct {
	ID    int64      `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// ProfileEvidence — evidence с автором загрузки (заполняется для админа).
type ProfileEvidence struct {
	model.Evidence
	Uploader *UserInfo `json:"uploader,omitempty"`
}

// ProfileThirdParty — контрагент с автором записи (заполняется для админа).
type ProfileThirdParty struct {
	model.ThirdParty
	Creator *UserInfo `json:"creator,omitempty"`
}

// ProfileStats — счётчики по спискам, попавшим в профиль этой роли.
// У клиента thirdPartyCount всегда 0: список ему не отдаётся.
type ProfileStats struct {
	EvidenceCount   int `json:"evidenceCount"`
	ThirdPartyCount int `json:"thirdPartyCount"`
	ClientCount     int `json:"clientCount"`
}

// Profile — сводный read-only ответ /users/profile.
type Profile struct {
	User         *model.User         `json:"user"`
	Stats        ProfileStats        `json:"stats"`
	Evidence     []ProfileEvidence   `json:"evidence"`
	ThirdParties []ProfileThirdParty `json:"thirdParties"`
	Users        []model.User        `json:"users"`
}

// ProfileService собирает сводку из трёх репозиториев. Только чтение.
type ProfileService struct {
	users        repo.UserRepository
	evidence     repo.EvidenceRepository
	thirdParties repo.ThirdPartyRepository
}

func NewProfileService(users repo.UserRepository, evidence repo.EvidenceRepository, thirdParties repo.ThirdPartyRepository) *ProfileService {
	return &ProfileService{users: users, evidence: evidence, thirdParties: thirdParties}
}

// GetProfile возвращает сводку в зависимости от роли: клиент видит только
// свои evidence, админ — всё, с авторами записей и списком клиентов.
func (s *ProfileService) GetProfile(ctx context.Context, actor *model.User) (*Profile, error) {
	p := &Profile{
		User:         actor,
		Evidence:     []ProfileEvidence{},
		ThirdParties: []ProfileThirdParty{},
		Users:        []model.User{},
	}

	switch actor.Role {
	case model.RoleClient:
		items, err := s.evidence.ListByOwner(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, ev := range items {
			p.Evidence = append(p.Evidence, ProfileEvidence{Evidence: ev})
		}

	case model.RoleAdmin:
		items, err := s.evidence.ListAllWithOwners(ctx)
		if err != nil {
			return nil, err
		}
		for _, ev := range items {
			pe := ProfileEvidence{Evidence: ev}
			if ev.Owner != nil {
				pe.Uploader = &UserInfo{ID: ev.Owner.ID, Email: ev.Owner.Email, Role: ev.Owner.Role}
			}
			p.Evidence = append(p.Evidence, pe)
		}

		tps, err := s.thirdParties.ListAllWithCreators(ctx)
		if err != nil {
			return nil, err
		}
		for _, tp := range tps {
			pt := ProfileThirdParty{ThirdParty: tp}
			if tp.Creator != nil {
				pt.Creator = &UserInfo{ID: tp.Creator.ID, Email: tp.Creator.Email, Role: tp.Creator.Role}
			}
			p.ThirdParties = append(p.ThirdParties, pt)
		}

		clients, err := s.users.ListByRole(ctx, model.RoleClient)
		if err != nil {
			return nil, err
		}
		p.Users = clients
	}

	p.Stats = ProfileStats{
		EvidenceCount:   len(p.Evidence),
		ThirdPartyCount: len(p.ThirdParties),
		ClientCount:     len(p.Users),
	}
	return p, nil
}
