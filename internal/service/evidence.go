package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/repo"
	"github.com/Saumajitt/grc-dashboard/internal/storage"
)

// MaxUploadFiles — лимит файлов в одной загрузке.
const MaxUploadFiles = 10

// DefaultPageLimit — размер страницы по умолчанию для всех списков.
const DefaultPageLimit = 10

// UploadFile — один файл из multipart-запроса.
type UploadFile struct {
	Name string
	Data io.Reader
}

// PagedEvidence — страница списка evidence.
type PagedEvidence struct {
	Page       int
	TotalPages int
	Total      int64
	Items      []model.Evidence
}

// EvidenceService инкапсулирует работу с evidence: метаданные в БД,
// содержимое в файловом хранилище.
type EvidenceService struct {
	repo   repo.EvidenceRepository
	files  *storage.FileStore
	logger *zap.SugaredLogger
}

func NewEvidenceService(r repo.EvidenceRepository, files *storage.FileStore, logger *zap.SugaredLogger) *EvidenceService {
	return &EvidenceService{repo: r, files: files, logger: logger}
}

// Upload сохраняет файлы в хранилище и вставляет метаданные одним батчем.
// Если батч не прошёл, уже записанные файлы удаляются — осиротевших блобов
// после неуспешной загрузки не остаётся.
func (s *EvidenceService) Upload(ctx context.Context, actor *model.User, title, category string, files []UploadFile) ([]model.Evidence, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > MaxUploadFiles {
		return nil, fmt.Errorf("%w: at most %d files per upload", ErrBadRequest, MaxUploadFiles)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrBadRequest)
	}
	cat, ok := model.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrBadRequest, category)
	}

	stored := make([]string, 0, len(files))
	cleanup := func() {
		for _, name := range stored {
			if err := s.files.Remove(name); err != nil {
				s.logger.Errorw("failed to remove orphaned upload", "filename", name, "error", err)
			}
		}
	}

	records := make([]model.Evidence, 0, len(files))
	for _, f := range files {
		name, path, size, err := s.files.Save(f.Name, f.Data)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: %s", ErrBadRequest, err)
		}
		stored = append(stored, name)
		records = append(records, model.Evidence{
			ID:       uuid.NewString(),
			Title:    title,
			Category: cat,
			Filename: name,
			Path:     path,
			Size:     size,
			OwnerID:  actor.ID,
		})
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		cleanup()
		return nil, err
	}
	return records, nil
}

// List возвращает страницу evidence владельца, новые первыми.
func (s *EvidenceService) List(ctx context.Context, ownerID int64, page, limit int, category string) (*PagedEvidence, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}

	f := repo.EvidenceFilter{OwnerID: &ownerID}
	if category != "" {
		cat, ok := model.ParseCategory(category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrBadRequest, category)
		}
		f.Category = cat
	}

	items, total, err := s.repo.List(ctx, f, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &PagedEvidence{
		Page:       page,
		TotalPages: totalPages(total, limit),
		Total:      total,
		Items:      items,
	}, nil
}

// Update меняет title и/или category. Владелец записи неизменяем.
func (s *EvidenceService) Update(ctx context.Context, actor *model.User, id string, title, category *string) (*model.Evidence, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanManage(actor, ev.OwnerID) {
		return nil, ErrForbidden
	}

	if title != nil && strings.TrimSpace(*title) != "" {
		ev.Title = strings.TrimSpace(*title)
	}
	if category != nil && *category != "" {
		cat, ok := model.ParseCategory(*category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrBadRequest, *category)
		}
		ev.Category = cat
	}

	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Delete удаляет блоб, затем запись метаданных. Отсутствующий на диске файл
// не мешает удалению; точка фиксации — удаление метаданных.
func (s *EvidenceService) Delete(ctx context.Context, actor *model.User, id string) (string, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !CanManage(actor, ev.OwnerID) {
		return "", ErrForbidden
	}

	if err := s.files.Remove(ev.Filename); err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// totalPages = ceil(total/limit)
func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
