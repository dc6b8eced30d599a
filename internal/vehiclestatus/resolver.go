package vehiclestatus

import (
	"github.com/loubnahub/location-voiture-admin-sub002/internal/vehicle"
)

// Signals 车辆状态推导的三路输入信号。
type Signals struct {
	HoldActive    bool // 存在生效中的运营占用
	DamageOpen    bool // 存在未了结的损伤报告
	BookingActive bool // 存在进行中的预订
}

// Resolve 纯函数：按固定优先级把三路信号折算成车辆状态。
//
// 优先级严格有序：hold > damage > booking > 空闲。
// 运营占用是人工下达的“物理不可用”决定，压过一切；
// 未了结损伤压过进行中的预订（损伤车不应按正常租出展示）。
// 调整这里的顺序属于行为变更，不是风格问题。
func Resolve(sig Signals) vehicle.Status {
	switch {
	case sig.HoldActive:
		return vehicle.StatusMaintenance
	case sig.DamageOpen:
		return vehicle.StatusDamaged
	case sig.BookingActive:
		return vehicle.StatusRented
	default:
		return vehicle.StatusAvailable
	}
}
