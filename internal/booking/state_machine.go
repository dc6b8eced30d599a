package booking

import (
	"fmt"
	"time"
)

// AllowTransition 定义预订状态机的允许流转关系。
// 目前采用“有向图”方式进行配置，后续可根据需要抽到配置中心。
var AllowTransition = map[Status][]Status{
	StatusPendingPayment:      {StatusPendingConfirmation, StatusPaymentFailed, StatusCancelledByUser, StatusCancelledByPlatform},
	StatusPaymentFailed:       {StatusPendingPayment, StatusCancelledByUser, StatusCancelledByPlatform},
	StatusPendingConfirmation: {StatusConfirmed, StatusCancelledByUser, StatusCancelledByPlatform},
	StatusConfirmed:           {StatusActive, StatusNoShow, StatusCancelledByUser, StatusCancelledByPlatform},
	StatusActive:              {StatusCompleted, StatusCancelledByPlatform},
	// 终态：不允许再流转
	StatusCompleted:           {},
	StatusCancelledByUser:     {},
	StatusCancelledByPlatform: {},
	StatusNoShow:              {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition 对预订应用状态变更，并维护关键时间字段。
// 仅在 CanTransition 返回 true 时调用。
func ApplyTransition(b *Booking, to Status, now time.Time) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}
	from := b.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid booking status transition: %s -> %s", from, to)
	}

	b.Status = to

	switch to {
	case StatusConfirmed:
		if b.ConfirmedAt == nil {
			t := now
			b.ConfirmedAt = &t
		}
	case StatusActive:
		if b.StartedAt == nil {
			t := now
			b.StartedAt = &t
		}
	case StatusCompleted:
		if b.CompletedAt == nil {
			t := now
			b.CompletedAt = &t
		}
	case StatusCancelledByUser, StatusCancelledByPlatform:
		if b.CancelledAt == nil {
			t := now
			b.CancelledAt = &t
		}
	}
	return nil
}
