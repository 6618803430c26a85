package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/repo"
)

// RowError — отклонённая строка CSV с причиной.
type RowError struct {
	Row   map[string]string `json:"row"`
	Error string            `json:"error"`
}

// BulkResult — итог bulk-загрузки: принятые строки вставлены одним батчем,
// отклонённые перечислены в порядке появления во входе.
type BulkResult struct {
	SuccessCount int        `json:"successCount"`
	FailureCount int        `json:"failureCount"`
	Errors       []RowError `json:"errors"`
}

// PagedThirdParties — страница списка контрагентов.
type PagedThirdParties struct {
	Page       int
	TotalPages int
	Total      int64
	Items      []model.ThirdParty
}

// ThirdPartyUpdate — частичное обновление: применяются только непустые поля.
type ThirdPartyUpdate struct {
	Name      *string
	Email     *string
	Company   *string
	Role      *string
	Industry  *string
	RiskScore *float64
}

// ThirdPartyService инкапсулирует работу с записями контрагентов.
type ThirdPartyService struct {
	repo   repo.ThirdPartyRepository
	logger *zap.SugaredLogger
}

func NewThirdPartyService(r repo.ThirdPartyRepository, logger *zap.SugaredLogger) *ThirdPartyService {
	return &ThirdPartyService{repo: r, logger: logger}
}

// BulkIngest читает CSV построчно: заголовки приводятся к нижнему регистру,
// строка без name или с нечисловым riskscore попадает в errors и в батч
// не идёт. Принятые строки вставляются одним батчем в конце потока.
func (s *ThirdPartyService) BulkIngest(ctx context.Context, actor *model.User, r io.Reader) (*BulkResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read CSV header", ErrBadRequest)
	}
	rawKeys := make([]string, len(header))
	keys := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff") // UTF-8 BOM
		}
		rawKeys[i] = h
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var accepted []model.ThirdParty
	rowErrors := []RowError{}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed CSV: %s", ErrBadRequest, err)
		}

		// raw — строка как прочитана, с исходными заголовками:
		// именно она уходит в ответ при отклонении
		row := make(map[string]string, len(keys))
		raw := make(map[string]string, len(keys))
		for i, v := range rec {
			if i < len(keys) && keys[i] != "" {
				row[keys[i]] = strings.TrimSpace(v)
				raw[rawKeys[i]] = v
			}
		}

		// порядок проверок фиксирован: сначала name, затем riskscore
		if row["name"] == "" {
			rowErrors = append(rowErrors, RowError{Row: raw, Error: "name is required"})
			continue
		}
		riskScore := 0.0
		if rs := row["riskscore"]; rs != "" {
			riskScore, err = strconv.ParseFloat(rs, 64)
			if err != nil {
				rowErrors = append(rowErrors, RowError{Row: raw, Error: "riskScore must be a number"})
				continue
			}
		}

		accepted = append(accepted, model.ThirdParty{
			ID:        uuid.NewString(),
			Name:      row["name"],
			Email:     row["email"],
			Company:   row["company"],
			Role:      row["role"],
			Industry:  row["industry"],
			RiskScore: riskScore,
			CreatedBy: actor.ID,
		})
	}

	if err := s.repo.CreateBatch(ctx, accepted); err != nil {
		return nil, err
	}
	s.logger.Infow("bulk ingest finished",
		"actor_id", actor.ID,
		"accepted", len(accepted),
		"rejected", len(rowErrors),
	)
	return &BulkResult{
		SuccessCount: len(accepted),
		FailureCount: len(rowErrors),
		Errors:       rowErrors,
	}, nil
}

// List возвращает страницу контрагентов, новые первыми.
func (s *ThirdPartyService) List(ctx context.Context, page, limit int, industry, name string) (*PagedThirdParties, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}

	f := repo.ThirdPartyFilter{Industry: industry, NameContains: name}
	items, total, err := s.repo.List(ctx, f, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &PagedThirdParties{
		Page:       page,
		TotalPages: totalPages(total, limit),
		Total:      total,
		Items:      items,
	}, nil
}

// GetByID возвращает запись; клиент видит только созданные им.
func (s *ThirdPartyService) GetByID(ctx context.Context, actor *model.User, id string) (*model.ThirdParty, error) {
	tp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanManage(actor, tp.CreatedBy) {
		return nil, ErrForbidden
	}
	return tp, nil
}

// Update меняет переданные поля записи.
func (s *ThirdPartyService) Update(ctx context.Context, actor *model.User, id string, upd ThirdPartyUpdate) (*model.ThirdParty, error) {
	tp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanManage(actor, tp.CreatedBy) {
		return nil, ErrForbidden
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		tp.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil && *upd.Email != "" {
		tp.Email = *upd.Email
	}
	if upd.Company != nil && *upd.Company != "" {
		tp.Company = *upd.Company
	}
	if upd.Role != nil && *upd.Role != "" {
		tp.Role = *upd.Role
	}
	if upd.Industry != nil && *upd.Industry != "" {
		tp.Industry = *upd.Industry
	}
	if upd.RiskScore != nil {
		tp.RiskScore = *upd.RiskScore
	}

	if err := s.repo.Update(ctx, tp); err != nil {
		return nil, err
	}
	return tp, nil
}

// Delete удаляет запись.
func (s *ThirdPartyService) Delete(ctx context.Context, actor *model.User, id string) (string, error) {
	tp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !CanManage(actor, tp.CreatedBy) {
		return "", ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}
