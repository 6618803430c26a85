package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Saumajitt/grc-dashboard/internal/model"
)

func TestProfileService_ClientView(t *testing.T) {
	ctx := context.Background()
	mu := new(mockUserRepo)
	me := new(mockEvidenceRepo)
	mt := new(mockThirdPartyRepo)
	svc := NewProfileService(mu, me, mt)

	client := &model.User{ID: 5, Email: "c@corp.io", Role: model.RoleClient}
	me.On("ListByOwner", mock.Anything, int64(5)).Return([]model.Evidence{
		{ID: "e1", OwnerID: 5},
		{ID: "e2", OwnerID: 5},
	}, nil).Once()

	p, err := svc.GetProfile(ctx, client)
	assert.NoError(t, err)
	assert.Equal(t, client, p.User)
	assert.Len(t, p.Evidence, 2)
	// клиенту список контрагентов и пользователей не отдаётся
	assert.Empty(t, p.ThirdParties)
	assert.Empty(t, p.Users)
	assert.Equal(t, 2, p.Stats.EvidenceCount)
	assert.Equal(t, 0, p.Stats.ThirdPartyCount)
	assert.Equal(t, 0, p.Stats.ClientCount)
	// uploader для собственных записей не заполняется
	assert.Nil(t, p.Evidence[0].Uploader)
	me.AssertExpectations(t)
}

func TestProfileService_AdminView(t *testing.T) {
	ctx := context.Background()
	mu := new(mockUserRepo)
	me := new(mockEvidenceRepo)
	mt := new(mockThirdPartyRepo)
	svc := NewProfileService(mu, me, mt)

	admin := &model.User{ID: 1, Email: "a@corp.io", Role: model.RoleAdmin}
	owner := &model.User{ID: 5, Email: "c@corp.io", Role: model.RoleClient}

	me.On("ListAllWithOwners", mock.Anything).Return([]model.Evidence{
		{ID: "e1", OwnerID: 5, Owner: owner},
		{ID: "e2", OwnerID: 9}, // владелец удалён, join пустой
	}, nil).Once()
	mt.On("ListAllWithCreators", mock.Anything).Return([]model.ThirdParty{
		{ID: "tp1", CreatedBy: 1, Creator: admin},
	}, nil).Once()
	mu.On("ListByRole", mock.Anything, model.RoleClient).Return([]model.User{*owner}, nil).Once()

	p, err := svc.GetProfile(ctx, admin)
	assert.NoError(t, err)
	if assert.Len(t, p.Evidence, 2) {
		if assert.NotNil(t, p.Evidence[0].Uploader) {
			assert.Equal(t, "c@corp.io", p.Evidence[0].Uploader.Email)
		}
		assert.Nil(t, p.Evidence[1].Uploader)
	}
	if assert.Len(t, p.ThirdParties, 1) {
		assert.NotNil(t, p.ThirdParties[0].Creator)
	}
	assert.Len(t, p.Users, 1)
	assert.Equal(t, ProfileStats{EvidenceCount: 2, ThirdPartyCount: 1, ClientCount: 1}, p.Stats)
	mu.AssertExpectations(t)
	me.AssertExpectations(t)
	mt.AssertExpectations(t)
}

func TestProfileService_UnknownRoleGetsEmptyProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(new(mockUserRepo), new(mockEvidenceRepo), new(mockThirdPartyRepo))

	p, err := svc.GetProfile(ctx, &model.User{ID: 3, Role: "auditor"})
	assert.NoError(t, err)
	assert.Empty(t, p.Evidence)
	assert.Empty(t, p.ThirdParties)
	assert.Empty(t, p.Users)
}
