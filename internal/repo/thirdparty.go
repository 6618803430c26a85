package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Saumajitt/grc-dashboard/internal/model"
)

// ThirdPartyFilter — условия выборки списка контрагентов.
type ThirdPartyFilter struct {
	Industry     string // точное совпадение
	NameContains string // подстрока без учёта регистра
}

// ThirdPartyRepository определяет контракт доступа к ThirdParty.
type ThirdPartyRepository interface {
	// CreateBatch вставляет все записи одним multi-row insert:
	// либо весь батч, либо ничего.
	CreateBatch(ctx context.Context, items []model.ThirdParty) error

	// GetByID возвращает запись или gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (*model.ThirdParty, error)

	// List возвращает страницу записей (created_at desc) и общее число
	// записей под фильтром.
	List(ctx context.Context, f ThirdPartyFilter, offset, limit int) ([]model.ThirdParty, int64, error)

	// ListAllWithCreators возвращает все записи с предзагруженными авторами,
	// новые первыми. Используется в админском профиле.
	ListAllWithCreators(ctx context.Context) ([]model.ThirdParty, error)

	// Update сохраняет изменённые поля записи.
	Update(ctx context.Context, tp *model.ThirdParty) error

	// Delete удаляет запись.
	Delete(ctx context.Context, id string) error
}

type thirdPartyRepo struct {
	db *gorm.DB
}

// NewThirdPartyRepository создаёт реализацию репозитория для ThirdParty.
func NewThirdPartyRepository(db *gorm.DB) ThirdPartyRepository {
	return &thirdPartyRepo{db: db}
}

func (r *thirdPartyRepo) CreateBatch(ctx context.Context, items []model.ThirdParty) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *thirdPartyRepo) GetByID(ctx context.Context, id string) (*model.ThirdParty, error) {
	var tp model.ThirdParty
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tp).Error; err != nil {
		return nil, err
	}
	return &tp, nil
}

func (r *thirdPartyRepo) List(ctx context.Context, f ThirdPartyFilter, offset, limit int) ([]model.ThirdParty, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ThirdParty{})
	if f.Industry != "" {
		q = q.Where("industry = ?", f.Industry)
	}
	if f.NameContains != "" {
		// LOWER + LIKE работает одинаково в sqlite (тесты) и postgres (прод)
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.NameContains)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.ThirdParty
	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *thirdPartyRepo) ListAllWithCreators(ctx context.Context) ([]model.ThirdParty, error) {
	var items []model.ThirdParty
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *thirdPartyRepo) Update(ctx context.Context, tp *model.ThirdParty) error {
	return r.db.WithContext(ctx).Save(tp).Error
}

func (r *thirdPartyRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ThirdParty{}).Error
}
