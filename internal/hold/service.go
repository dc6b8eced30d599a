package hold

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusTrigger 车辆状态引擎暴露给 hold CRUD 的 post-commit 钩子。
// 删除也必须触发：撤掉占用可能把车辆从 maintenance 解放出来。
type StatusTrigger interface {
	OnOperationalHoldPersisted(ctx context.Context, h *Hold)
	OnOperationalHoldDeleted(ctx context.Context, h *Hold)
}

// Service 封装运营占用的核心用例。
type Service struct {
	repo    *Repo
	trigger StatusTrigger
}

func NewService(repo *Repo, trigger StatusTrigger) *Service {
	return &Service{repo: repo, trigger: trigger}
}

// CreateInput 创建占用的入参。
type CreateInput struct {
	VehicleID string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	CreatedBy string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Hold, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if strings.TrimSpace(in.VehicleID) == "" {
		return nil, fmt.Errorf("vehicle_id required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, fmt.Errorf("start_date and end_date required")
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}

	h := &Hold{
		ID:        uuid.NewString(),
		VehicleID: strings.TrimSpace(in.VehicleID),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    strings.TrimSpace(in.Reason),
		CreatedBy: strings.TrimSpace(in.CreatedBy),
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}

	if s.trigger != nil {
		s.trigger.OnOperationalHoldPersisted(ctx, h)
	}
	return h, nil
}

// UpdateWindow 调整占用时间窗/原因。
func (s *Service) UpdateWindow(ctx context.Context, id string, start, end time.Time, reason string) (*Hold, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}

	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	h.StartDate = start
	h.EndDate = end
	if reason != "" {
		h.Reason = strings.TrimSpace(reason)
	}
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}

	if s.trigger != nil {
		s.trigger.OnOperationalHoldPersisted(ctx, h)
	}
	return h, nil
}

// Delete 删除占用并触发车辆状态重算。
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id required")
	}

	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.trigger != nil {
		s.trigger.OnOperationalHoldDeleted(ctx, h)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Hold, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListByVehicle(ctx context.Context, vehicleID string, offset, limit int) ([]Hold, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.ListByVehicle(ctx, strings.TrimSpace(vehicleID), offset, limit)
}
