package damage

import "time"

// Status 损伤报告状态枚举（持久化为字符串）。
type Status string

const (
	StatusReported            Status = "reported"             // 已上报
	StatusUnderInvestigation  Status = "under_investigation"  // 定责中
	StatusAwaitingRepairQuote Status = "awaiting_repair_quote" // 待维修报价
	StatusRepairPending       Status = "repair_pending"       // 待送修
	StatusInRepair            Status = "in_repair"            // 维修中
	StatusRepaired            Status = "repaired"             // 已修复，待结案
	StatusResolvedNoRepair    Status = "resolved_no_repair"   // 无需维修，了结
	StatusClosedWithCharge    Status = "closed_with_charge"   // 已结案（向客户扣费）
	StatusClosedNoCharge      Status = "closed_no_charge"     // 已结案（不扣费）
)

// ResolvedStatuses 是唯一的“已了结”状态集合。
// 注意 repaired 不在其中：修完但未结案的报告仍然算未了结，
// 车辆状态推导会继续把车压在 damaged 上。
var ResolvedStatuses = []Status{
	StatusResolvedNoRepair,
	StatusClosedWithCharge,
	StatusClosedNoCharge,
}

// Valid 判断是否为合法状态值。
func (s Status) Valid() bool {
	switch s {
	case StatusReported, StatusUnderInvestigation, StatusAwaitingRepairQuote,
		StatusRepairPending, StatusInRepair, StatusRepaired,
		StatusResolvedNoRepair, StatusClosedWithCharge, StatusClosedNoCharge:
		return true
	}
	return false
}

// Resolved 判断该状态是否属于已了结集合。
func (s Status) Resolved() bool {
	for _, r := range ResolvedStatuses {
		if s == r {
			return true
		}
	}
	return false
}

// Report 是 damage_reports 表的 GORM 模型。
// 报告挂在预订上（车辆通过预订间接可达）。
type Report struct {
	ID          string    `gorm:"primaryKey;size:36"`
	BookingID   string    `gorm:"index;size:36;not null"`
	Status      Status    `gorm:"type:varchar(32);index;not null"`
	ReportedAt  time.Time `gorm:"index;not null"` // 未来时间的报告暂不参与推导
	Description string    `gorm:"size:1024"`
	RepairCost  int64     `gorm:"not null;default:0"` // 维修费用（单位：分）
	Currency    string    `gorm:"size:8;not null;default:'MAD'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Report) TableName() string { return "damage_reports" }
