package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Saumajitt/grc-dashboard/internal/config"
	"github.com/Saumajitt/grc-dashboard/internal/handlers"
	"github.com/Saumajitt/grc-dashboard/internal/middleware"
	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/repo"
	"github.com/Saumajitt/grc-dashboard/internal/service"
	"github.com/Saumajitt/grc-dashboard/internal/storage"
)

// Local light mocks
type hMockUserRepo struct{ mock.Mock }

func (m *hMockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	if u, ok := args.Get(0).([]model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *hMockUserRepo) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.UserRepository = (*hMockUserRepo)(nil)

type hMockEvidenceRepo struct{ mock.Mock }

func (m *hMockEvidenceRepo) CreateBatch(ctx context.Context, items []model.Evidence) error {
	return m.Called(ctx, items).Error(0)
}
func (m *hMockEvidenceRepo) GetByID(ctx context.Context, id string) (*model.Evidence, error) {
	args := m.Called(ctx, id)
	if ev, ok := args.Get(0).(*model.Evidence); ok {
		return ev, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockEvidenceRepo) List(ctx context.Context, f repo.EvidenceFilter, offset, limit int) ([]model.Evidence, int64, error) {
	args := m.Called(ctx, f, offset, limit)
	if items, ok := args.Get(0).([]model.Evidence); ok {
		return items, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}
func (m *hMockEvidenceRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Evidence, error) {
	args := m.Called(ctx, ownerID)
	if items, ok := args.Get(0).([]model.Evidence); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockEvidenceRepo) ListAllWithOwners(ctx context.Context) ([]model.Evidence, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]model.Evidence); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockEvidenceRepo) Update(ctx context.Context, ev *model.Evidence) error {
	return m.Called(ctx, ev).Error(0)
}
func (m *hMockEvidenceRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.EvidenceRepository = (*hMockEvidenceRepo)(nil)

type hMockThirdPartyRepo struct{ mock.Mock }

func (m *hMockThirdPartyRepo) CreateBatch(ctx context.Context, items []model.ThirdParty) error {
	return m.Called(ctx, items).Error(0)
}
func (m *hMockThirdPartyRepo) GetByID(ctx context.Context, id string) (*model.ThirdParty, error) {
	args := m.Called(ctx, id)
	if tp, ok := args.Get(0).(*model.ThirdParty); ok {
		return tp, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockThirdPartyRepo) List(ctx context.Context, f repo.ThirdPartyFilter, offset, limit int) ([]model.ThirdParty, int64, error) {
	args := m.Called(ctx, f, offset, limit)
	if items, ok := args.Get(0).([]model.ThirdParty); ok {
		return items, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}
func (m *hMockThirdPartyRepo) ListAllWithCreators(ctx context.Context) ([]model.ThirdParty, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]model.ThirdParty); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockThirdPartyRepo) Update(ctx context.Context, tp *model.ThirdParty) error {
	return m.Called(ctx, tp).Error(0)
}
func (m *hMockThirdPartyRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.ThirdPartyRepository = (*hMockThirdPartyRepo)(nil)

type testMocks struct {
	users        *hMockUserRepo
	evidence     *hMockEvidenceRepo
	thirdParties *hMockThirdPartyRepo
}

// newTestRouter собирает полный router поверх замоканных репозиториев и
// реального файлового хранилища во временном каталоге.
func newTestRouter(t *testing.T) (http.Handler, *config.Config, *testMocks) {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", MaxUploadMB: 1, UploadDir: t.TempDir()}
	logger := zap.NewNop().Sugar()

	m := &testMocks{
		users:        &hMockUserRepo{},
		evidence:     &hMockEvidenceRepo{},
		thirdParties: &hMockThirdPartyRepo{},
	}

	fs, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	userSvc := service.NewUserService(m.users)
	evidenceSvc := service.NewEvidenceService(m.evidence, fs, logger)
	thirdPartySvc := service.NewThirdPartyService(m.thirdParties, logger)
	profileSvc := service.NewProfileService(m.users, m.evidence, m.thirdParties)

	h := handlers.NewHandler(userSvc, evidenceSvc, thirdPartySvc, profileSvc, logger, cfg)
	return h.Router, cfg, m
}

// addAuth подписывает запрос bearer-токеном пользователя.
func addAuth(t *testing.T, req *http.Request, userID int64, role model.Role, secret string) {
	t.Helper()
	token, err := middleware.BuildJWTString(userID, role, secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// expectActor регистрирует перечитывание актора из БД, которое делает каждый
// аутентифицированный хендлер.
func expectActor(m *testMocks, u *model.User) {
	m.users.On("GetUserByID", mock.Anything, u.ID).Return(u, nil)
}
