package hold

import "time"

// Hold 是 operational_holds 表的 GORM 模型：运营侧对车辆的占用
// （计划保养、年检、调拨等）。
//
// hold 没有独立的状态字段：是否“生效”完全由时间窗决定——
// 当前时间落在 [start_date, end_date]（含边界）内即生效。
type Hold struct {
	ID        string    `gorm:"primaryKey;size:36"`
	VehicleID string    `gorm:"index;size:36;not null"`
	StartDate time.Time `gorm:"index;not null"`
	EndDate   time.Time `gorm:"index;not null"`
	Reason    string    `gorm:"size:255"`
	CreatedBy string    `gorm:"size:36"` // 发起占用的后台账号
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Hold) TableName() string { return "operational_holds" }

// ActiveAt 判断 hold 在给定时刻是否生效（边界计入）。
func (h Hold) ActiveAt(t time.Time) bool {
	return !t.Before(h.StartDate) && !t.After(h.EndDate)
}
