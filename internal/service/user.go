package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/repo"
)

// UserService инкапсулирует регистрацию, аутентификацию и админское
// управление клиентами.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register создаёт пользователя. Email нормализуется в нижний регистр,
// пароль хешируется bcrypt и в открытом виде нигде не сохраняется.
func (s *UserService) Register(ctx context.Context, email, password, role string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrBadRequest)
	}
	r, ok := model.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrBadRequest, role)
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateUser(ctx, &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         r,
	})
}

// Login проверяет учётные данные. Неизвестный email и неверный пароль
// неразличимы снаружи: оба дают ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Resolve перечитывает пользователя по id из токена. Если пользователь
// исчез, токен мёртв независимо от срока действия.
func (s *UserService) Resolve(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// ListClients возвращает всех пользователей с ролью client, новые первыми.
func (s *UserService) ListClients(ctx context.Context) ([]model.User, error) {
	return s.repo.ListByRole(ctx, model.RoleClient)
}

// UpdateClient меняет email и/или роль клиента. Запись с другой ролью
// для этой операции не существует (404, как и при отсутствии id).
func (s *UserService) UpdateClient(ctx context.Context, id int64, email, role *string) (*model.User, error) {
	client, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if client.Role != model.RoleClient {
		return nil, ErrNotFound
	}

	if email != nil && *email != "" {
		client.Email = strings.ToLower(strings.TrimSpace(*email))
	}
	if role != nil && *role != "" {
		r, ok := model.ParseRole(*role)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", ErrBadRequest, *role)
		}
		client.Role = r
	}

	if err := s.repo.UpdateUser(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient удаляет клиента. Его evidence и third-party записи намеренно
// остаются: каскадного удаления в модели данных нет.
func (s *UserService) DeleteClient(ctx context.Context, id int64) (int64, error) {
	client, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if client.Role != model.RoleClient {
		return 0, ErrNotFound
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}
