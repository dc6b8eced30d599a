package booking

import "time"

// Status 预订状态枚举（持久化为字符串）。
type Status string

const (
	StatusPendingPayment      Status = "pending_payment"       // 待支付
	StatusPaymentFailed       Status = "payment_failed"        // 支付失败，待重试或关单
	StatusPendingConfirmation Status = "pending_confirmation"  // 待平台确认
	StatusConfirmed           Status = "confirmed"             // 已确认，待取车
	StatusActive              Status = "active"                // 租赁进行中
	StatusCompleted           Status = "completed"             // 已完成（还车）
	StatusCancelledByUser     Status = "cancelled_by_user"     // 用户取消
	StatusCancelledByPlatform Status = "cancelled_by_platform" // 平台取消
	StatusNoShow              Status = "no_show"               // 未到店
)

// ActiveStatuses 参与车辆状态推导的“进行中”状态集合：
// 仅 confirmed / active 且当前时间落在 [start_date, end_date] 内的预订
// 才会把车辆推向 rented。
var ActiveStatuses = []Status{StatusConfirmed, StatusActive}

// Valid 判断是否为合法状态值。
func (s Status) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusPaymentFailed, StatusPendingConfirmation,
		StatusConfirmed, StatusActive, StatusCompleted,
		StatusCancelledByUser, StatusCancelledByPlatform, StatusNoShow:
		return true
	}
	return false
}

// Booking 是 bookings 表的 GORM 模型。
type Booking struct {
	ID string `gorm:"primaryKey;size:36"`

	// 业务关联
	VehicleID  string `gorm:"index;size:36;not null"`          // 关联车辆
	CustomerID string `gorm:"index;size:36;not null"`          // 下单客户
	Status     Status `gorm:"type:varchar(32);index;not null"` // 当前状态
	Channel    string `gorm:"size:32"`                         // 下单渠道（storefront、后台代客下单等）

	// 租期
	StartDate time.Time `gorm:"index;not null"`
	EndDate   time.Time `gorm:"index;not null"`

	// 金额信息（单位：分）
	TotalPrice int64  `gorm:"not null;default:0"`
	Currency   string `gorm:"size:8;not null;default:'MAD'"`

	// 时间信息
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
	ConfirmedAt *time.Time // 平台确认时间
	StartedAt   *time.Time // 取车时间
	CompletedAt *time.Time // 还车时间
	CancelledAt *time.Time // 取消时间
}

func (Booking) TableName() string { return "bookings" }
