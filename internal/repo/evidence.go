package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Saumajitt/grc-dashboard/internal/model"
)

// EvidenceFilter — условия выборки списка evidence.
type EvidenceFilter struct {
	OwnerID  *int64
	Category model.Category
}

// EvidenceRepository определяет контракт доступа к Evidence.
type EvidenceRepository interface {
	// CreateBatch вставляет все записи одним multi-row insert:
	// либо весь батч, либо ничего.
	CreateBatch(ctx context.Context, items []model.Evidence) error

	// GetByID возвращает запись или gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (*model.Evidence, error)

	// List возвращает страницу записей (created_at desc) и общее число
	// записей под фильтром.
	List(ctx context.Context, f EvidenceFilter, offset, limit int) ([]model.Evidence, int64, error)

	// ListByOwner возвращает все записи владельца, новые первыми.
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Evidence, error)

	// ListAllWithOwners возвращает все записи с предзагруженными владельцами,
	// новые первыми. Используется в админском профиле.
	ListAllWithOwners(ctx context.Context) ([]model.Evidence, error)

	// Update сохраняет изменённые поля записи.
	Update(ctx context.Context, ev *model.Evidence) error

	// Delete удаляет запись метаданных.
	Delete(ctx context.Context, id string) error
}

type evidenceRepo struct {
	db *gorm.DB
}

// NewEvidenceRepository создаёт реализацию репозитория для Evidence.
func NewEvidenceRepository(db *gorm.DB) EvidenceRepository {
	return &evidenceRepo{db: db}
}

func (r *evidenceRepo) CreateBatch(ctx context.Context, items []model.Evidence) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *evidenceRepo) GetByID(ctx context.Context, id string) (*model.Evidence, error) {
	var ev model.Evidence
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *evidenceRepo) List(ctx context.Context, f EvidenceFilter, offset, limit int) ([]model.Evidence, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Evidence{})
	if f.OwnerID != nil {
		q = q.Where("owner_id = ?", *f.OwnerID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Evidence
	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *evidenceRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Evidence, error) {
	var items []model.Evidence
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *evidenceRepo) ListAllWithOwners(ctx context.Context) ([]model.Evidence, error) {
	var items []model.Evidence
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *evidenceRepo) Update(ctx context.Context, ev *model.Evidence) error {
	return r.db.WithContext(ctx).Save(ev).Error
}

func (r *evidenceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Evidence{}).Error
}
