package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/logger"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/mq"
)

// StatusTrigger 车辆状态引擎暴露给预订 CRUD 的 post-commit 钩子。
// 约定：只在本次写入成功落库之后调用；实现方自行记录错误，绝不回抛。
type StatusTrigger interface {
	OnBookingPersisted(ctx context.Context, b *Booking, previousVehicleID string)
}

// Service 封装预订领域的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	repo    *Repo
	trigger StatusTrigger
	events  mq.Publisher
	log     logger.Logger
}

func NewService(repo *Repo, trigger StatusTrigger, events mq.Publisher, log logger.Logger) *Service {
	return &Service{repo: repo, trigger: trigger, events: events, log: log}
}

// CreateInput 创建预订的入参（可作为传输层 DTO 的基础）。
type CreateInput struct {
	VehicleID  string
	CustomerID string
	Channel    string
	Currency   string

	StartDate time.Time
	EndDate   time.Time

	TotalPrice int64

	// 初始状态；为空时默认 pending_confirmation
	Status Status
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Booking, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if strings.TrimSpace(in.VehicleID) == "" {
		return nil, fmt.Errorf("vehicle_id required")
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, fmt.Errorf("customer_id required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, fmt.Errorf("start_date and end_date required")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, fmt.Errorf("end_date must be after start_date")
	}

	st := in.Status
	if st == "" {
		st = StatusPendingConfirmation
	}
	if !st.Valid() {
		return nil, fmt.Errorf("invalid booking status: %s", st)
	}

	b := &Booking{
		ID:         uuid.NewString(),
		VehicleID:  strings.TrimSpace(in.VehicleID),
		CustomerID: strings.TrimSpace(in.CustomerID),
		Status:     st,
		Channel:    strings.TrimSpace(in.Channel),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		TotalPrice: in.TotalPrice,
		Currency:   defaultCurrency(in.Currency),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// 写入已提交：触发车辆状态同步 + 领域事件
	s.fireTrigger(ctx, b, "")
	s.publish(ctx, RKBookingCreated, b, "")
	return b, nil
}

// UpdateStatus 根据状态机规则进行状态流转。
func (s *Service) UpdateStatus(ctx context.Context, bookingID string, to Status, now time.Time) (*Booking, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("booking_id required")
	}
	if to == "" {
		return nil, fmt.Errorf("target status required")
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := ApplyTransition(b, to, now); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.fireTrigger(ctx, b, "")
	s.publish(ctx, RKBookingTransition, b, "")
	return b, nil
}

// ReassignVehicle 换车：把预订挪到另一辆车上。
// 原车辆也必须重新推导状态（它可能因此回落到 available）。
func (s *Service) ReassignVehicle(ctx context.Context, bookingID, newVehicleID string) (*Booking, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	bookingID = strings.TrimSpace(bookingID)
	newVehicleID = strings.TrimSpace(newVehicleID)
	if bookingID == "" {
		return nil, fmt.Errorf("booking_id required")
	}
	if newVehicleID == "" {
		return nil, fmt.Errorf("vehicle_id required")
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	prev := b.VehicleID
	if prev == newVehicleID {
		return b, nil
	}

	b.VehicleID = newVehicleID
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.fireTrigger(ctx, b, prev)
	s.publish(ctx, RKBookingReassigned, b, prev)
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) fireTrigger(ctx context.Context, b *Booking, previousVehicleID string) {
	if s.trigger == nil {
		return
	}
	s.trigger.OnBookingPersisted(ctx, b, previousVehicleID)
}

func (s *Service) publish(ctx context.Context, key string, b *Booking, prevVehicleID string) {
	if s.events == nil {
		return
	}
	evt := Event{
		BookingID:         b.ID,
		VehicleID:         b.VehicleID,
		CustomerID:        b.CustomerID,
		Status:            string(b.Status),
		PreviousVehicleID: prevVehicleID,
	}
	if err := s.events.PublishJSON(ctx, key, evt); err != nil && s.log != nil {
		s.log.Warnf("failed to publish %s for booking=%s: %v", key, b.ID, err)
	}
}

func defaultCurrency(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return "MAD"
	}
	return strings.ToUpper(c)
}
