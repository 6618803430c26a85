package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Saumajitt/grc-dashboard/internal/model"
)

// UserRepository определяет контракт доступа к User для слоя сервиса.
type UserRepository interface {
	// CreateUser вставляет запись и возвращает её с заполненным ID.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)

	// GetUserByEmail ищет пользователя по email (email хранится в нижнем регистре).
	// Возвращает gorm.ErrRecordNotFound, если записи нет.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByID ищет пользователя по id.
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	// ListByRole возвращает пользователей с указанной ролью, новые первыми.
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)

	// UpdateUser сохраняет изменённые поля записи.
	UpdateUser(ctx context.Context, user *model.User) error

	// DeleteUser удаляет пользователя. Записи, созданные им, не трогаем.
	DeleteUser(ctx context.Context, id int64) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория для User.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at desc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) DeleteUser(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}
