package damage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusTrigger 车辆状态引擎暴露给损伤报告 CRUD 的 post-commit 钩子。
// 车辆由实现方通过报告所属的预订解析；解析不到则告警跳过，不回抛。
type StatusTrigger interface {
	OnDamageReportPersisted(ctx context.Context, rep *Report)
}

// Service 封装损伤报告的核心用例。
type Service struct {
	repo    *Repo
	trigger StatusTrigger
}

func NewService(repo *Repo, trigger StatusTrigger) *Service {
	return &Service{repo: repo, trigger: trigger}
}

// CreateInput 上报损伤的入参。
type CreateInput struct {
	BookingID   string
	Description string
	ReportedAt  time.Time // 零值时取当前时间
	RepairCost  int64
	Currency    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Report, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if strings.TrimSpace(in.BookingID) == "" {
		return nil, fmt.Errorf("booking_id required")
	}

	reportedAt := in.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}

	rep := &Report{
		ID:          uuid.NewString(),
		BookingID:   strings.TrimSpace(in.BookingID),
		Status:      StatusReported,
		ReportedAt:  reportedAt,
		Description: strings.TrimSpace(in.Description),
		RepairCost:  in.RepairCost,
		Currency:    defaultCurrency(in.Currency),
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	if s.trigger != nil {
		s.trigger.OnDamageReportPersisted(ctx, rep)
	}
	return rep, nil
}

// UpdateStatus 按处理流程推进报告状态（结案会让车辆状态回落）。
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (*Report, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	if !to.Valid() {
		return nil, fmt.Errorf("invalid damage report status: %s", to)
	}

	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ApplyTransition(rep, to); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, err
	}

	if s.trigger != nil {
		s.trigger.OnDamageReportPersisted(ctx, rep)
	}
	return rep, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Report, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListByBooking(ctx context.Context, bookingID string, offset, limit int) ([]Report, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.ListByBooking(ctx, strings.TrimSpace(bookingID), offset, limit)
}

func defaultCurrency(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return "MAD"
	}
	return strings.ToUpper(c)
}
