package vehicle

import (
	"time"
)

// Status 车辆运营状态（持久化为字符串）。
//
// 该字段是“派生状态”：由车辆的运营占用（operational hold）、未了结损伤
// （damage report）与进行中预订（booking）共同推导，只允许由
// vehiclestatus 引擎写入，CRUD 路径不得直接修改。
type Status string

const (
	StatusAvailable         Status = "available"          // 可租
	StatusRented            Status = "rented"             // 租出（存在进行中的预订）
	StatusMaintenance       Status = "maintenance"        // 维保占用（运营 hold 生效中）
	StatusUnavailable       Status = "unavailable"        // 下架（历史/种子值，引擎不会产出）
	StatusPendingInspection Status = "pending_inspection" // 待验车（历史/种子值，引擎不会产出）
	StatusDamaged           Status = "damaged"            // 存在未了结的损伤报告
)

// Valid 判断是否为合法的（可入库的）状态值。
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusMaintenance,
		StatusUnavailable, StatusPendingInspection, StatusDamaged:
		return true
	}
	return false
}

// Vehicle 是 vehicles 表的 GORM 模型。
type Vehicle struct {
	ID          string    `gorm:"primaryKey;size:36"`
	PlateNumber string    `gorm:"uniqueIndex;size:32;not null"`
	VIN         string    `gorm:"size:64"`
	Make        string    `gorm:"size:64"`
	Model       string    `gorm:"size:64"`
	Year        int       `gorm:"not null;default:0"`
	Status      Status    `gorm:"type:varchar(32);index;not null"`
	DailyRate   int64     `gorm:"not null;default:0"` // 日租价（单位：分）
	Currency    string    `gorm:"size:8;not null;default:'MAD'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Vehicle) TableName() string { return "vehicles" }
