package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/repo"
	"github.com/Saumajitt/grc-dashboard/internal/storage"
)

// мок для repo.EvidenceRepository
type mockEvidenceRepo struct{ mock.Mock }

func (m *mockEvidenceRepo) CreateBatch(ctx context.Context, items []model.Evidence) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *mockEvidenceRepo) GetByID(ctx context.Context, id string) (*model.Evidence, error) {
	args := m.Called(ctx, id)
	if ev, ok := args.Get(0).(*model.Evidence); ok {
		return ev, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEvidenceRepo) List(ctx context.Context, f repo.EvidenceFilter, offset, limit int) ([]model.Evidence, int64, error) {
	args := m.Called(ctx, f, offset, limit)
	if items, ok := args.Get(0).([]model.Evidence); ok {
		return items, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *mockEvidenceRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Evidence, error) {
	args := m.Called(ctx, ownerID)
	if items, ok := args.Get(0).([]model.Evidence); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEvidenceRepo) ListAllWithOwners(ctx context.Context) ([]model.Evidence, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]model.Evidence); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockEvidenceRepo) Update(ctx context.Context, ev *model.Evidence) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *mockEvidenceRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repo.EvidenceRepository = (*mockEvidenceRepo)(nil)

// newEvidenceService поднимает сервис с реальным файловым хранилищем во
// временном каталоге и замоканной БД.
func newEvidenceService(t *testing.T, m *mockEvidenceRepo) (*EvidenceService, *storage.FileStore) {
	t.Helper()
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	return NewEvidenceService(m, fs, zap.NewNop().Sugar()), fs
}

func filesOnDisk(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func TestEvidenceService_Upload(t *testing.T) {
	ctx := context.Background()
	actor := &model.User{ID: 42, Role: model.RoleClient}

	t.Run("saves files and inserts one batch", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, fs := newEvidenceService(t, m)

		m.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []model.Evidence) bool {
			return len(items) == 2 &&
				items[0].OwnerID == 42 &&
				items[0].Title == "SOC2 report" &&
				items[0].Category == model.CategoryPolicy &&
				items[0].ID != "" && items[0].ID != items[1].ID
		})).Return(nil).Once()

		records, err := svc.Upload(ctx, actor, "SOC2 report", "policy", []UploadFile{
			{Name: "a.pdf", Data: strings.NewReader("first")},
			{Name: "b.pdf", Data: strings.NewReader("second")},
		})
		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, int64(5), records[0].Size)
		// оба файла на диске
		assert.Equal(t, 2, filesOnDisk(t, fs.Dir()))
		m.AssertExpectations(t)
	})

	t.Run("no files", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		_, err := svc.Upload(ctx, actor, "title", "", nil)
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	t.Run("too many files", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		files := make([]UploadFile, MaxUploadFiles+1)
		for i := range files {
			files[i] = UploadFile{Name: "f.txt", Data: strings.NewReader("x")}
		}
		_, err := svc.Upload(ctx, actor, "title", "", files)
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("empty title", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		_, err := svc.Upload(ctx, actor, "  ", "", []UploadFile{{Name: "f.txt", Data: strings.NewReader("x")}})
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("unknown category", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		_, err := svc.Upload(ctx, actor, "title", "selfie", []UploadFile{{Name: "f.txt", Data: strings.NewReader("x")}})
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("failed batch leaves no orphaned files", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, fs := newEvidenceService(t, m)

		m.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		_, err := svc.Upload(ctx, actor, "title", "", []UploadFile{
			{Name: "a.txt", Data: strings.NewReader("x")},
			{Name: "b.txt", Data: strings.NewReader("y")},
		})
		assert.Error(t, err)
		// записанные файлы откатились
		assert.Equal(t, 0, filesOnDisk(t, fs.Dir()))
		m.AssertExpectations(t)
	})
}

func TestEvidenceService_List(t *testing.T) {
	ctx := context.Background()
	m := new(mockEvidenceRepo)
	svc, _ := newEvidenceService(t, m)

	t.Run("defaults and total pages", func(t *testing.T) {
		m.ExpectedCalls = nil
		owner := int64(42)
		m.On("List", mock.Anything, repo.EvidenceFilter{OwnerID: &owner}, 0, 10).
			Return([]model.Evidence{{ID: "e1"}}, int64(25), nil).Once()

		// page=0 и limit=0 приводятся к 1 и 10
		got, err := svc.List(ctx, 42, 0, 0, "")
		assert.NoError(t, err)
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, 3, got.TotalPages)
		assert.Equal(t, int64(25), got.Total)
		m.AssertExpectations(t)
	})

	t.Run("category filter applied", func(t *testing.T) {
		m.ExpectedCalls = nil
		owner := int64(42)
		m.On("List", mock.Anything, repo.EvidenceFilter{OwnerID: &owner, Category: model.CategoryDoc}, 10, 10).
			Return([]model.Evidence{}, int64(0), nil).Once()

		got, err := svc.List(ctx, 42, 2, 10, "doc")
		assert.NoError(t, err)
		assert.Equal(t, 0, got.TotalPages)
		m.AssertExpectations(t)
	})

	t.Run("unknown category", func(t *testing.T) {
		m.ExpectedCalls = nil

		_, err := svc.List(ctx, 42, 1, 10, "selfie")
		assert.ErrorIs(t, err, ErrBadRequest)
	})
}

func TestEvidenceService_Update(t *testing.T) {
	ctx := context.Background()
	owner := &model.User{ID: 42, Role: model.RoleClient}
	stranger := &model.User{ID: 7, Role: model.RoleClient}

	t.Run("owner updates title", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		m.On("GetByID", mock.Anything, "e1").Return(&model.Evidence{ID: "e1", OwnerID: 42, Title: "old"}, nil).Once()
		m.On("Update", mock.Anything, mock.MatchedBy(func(ev *model.Evidence) bool {
			return ev.Title == "new title"
		})).Return(nil).Once()

		title := "new title"
		got, err := svc.Update(ctx, owner, "e1", &title, nil)
		assert.NoError(t, err)
		assert.Equal(t, "new title", got.Title)
		m.AssertExpectations(t)
	})

	t.Run("foreign record forbidden", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		m.On("GetByID", mock.Anything, "e1").Return(&model.Evidence{ID: "e1", OwnerID: 42}, nil).Once()

		_, err := svc.Update(ctx, stranger, "e1", nil, nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing record", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		m.On("GetByID", mock.Anything, "nope").Return((*model.Evidence)(nil), gorm.ErrRecordNotFound).Once()

		_, err := svc.Update(ctx, owner, "nope", nil, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEvidenceService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := &model.User{ID: 42, Role: model.RoleClient}

	t.Run("removes blob and metadata", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, fs := newEvidenceService(t, m)

		// кладём реальный файл, чтобы проверить удаление с диска
		stored, _, _, err := fs.Save("doc.pdf", strings.NewReader("data"))
		assert.NoError(t, err)

		m.On("GetByID", mock.Anything, "e1").Return(&model.Evidence{ID: "e1", OwnerID: 42, Filename: stored}, nil).Once()
		m.On("Delete", mock.Anything, "e1").Return(nil).Once()

		id, err := svc.Delete(ctx, owner, "e1")
		assert.NoError(t, err)
		assert.Equal(t, "e1", id)
		_, statErr := os.Stat(filepath.Join(fs.Dir(), stored))
		assert.True(t, os.IsNotExist(statErr))
		m.AssertExpectations(t)
	})

	t.Run("missing blob does not block delete", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		m.On("GetByID", mock.Anything, "e2").Return(&model.Evidence{ID: "e2", OwnerID: 42, Filename: "gone.pdf"}, nil).Once()
		m.On("Delete", mock.Anything, "e2").Return(nil).Once()

		id, err := svc.Delete(ctx, owner, "e2")
		assert.NoError(t, err)
		assert.Equal(t, "e2", id)
		m.AssertExpectations(t)
	})

	t.Run("admin deletes foreign record", func(t *testing.T) {
		m := new(mockEvidenceRepo)
		svc, _ := newEvidenceService(t, m)

		admin := &model.User{ID: 1, Role: model.RoleAdmin}
		m.On("GetByID", mock.Anything, "e3").Return(&model.Evidence{ID: "e3", OwnerID: 42, Filename: "x.pdf"}, nil).Once()
		m.On("Delete", mock.Anything, "e3").Return(nil).Once()

		_, err := svc.Delete(ctx, admin, "e3")
		assert.NoError(t, err)
	})
}
