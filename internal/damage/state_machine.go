package damage

import "fmt"

// AllowTransition 定义损伤报告处理流程的允许流转关系。
var AllowTransition = map[Status][]Status{
	StatusReported:            {StatusUnderInvestigation, StatusResolvedNoRepair, StatusClosedWithCharge, StatusClosedNoCharge},
	StatusUnderInvestigation:  {StatusAwaitingRepairQuote, StatusResolvedNoRepair, StatusClosedWithCharge, StatusClosedNoCharge},
	StatusAwaitingRepairQuote: {StatusRepairPending, StatusResolvedNoRepair, StatusClosedWithCharge, StatusClosedNoCharge},
	StatusRepairPending:       {StatusInRepair, StatusClosedWithCharge, StatusClosedNoCharge},
	StatusInRepair:            {StatusRepaired},
	StatusRepaired:            {StatusClosedWithCharge, StatusClosedNoCharge},
	// 终态
	StatusResolvedNoRepair: {},
	StatusClosedWithCharge: {},
	StatusClosedNoCharge:   {},
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

// ApplyTransition 对报告应用状态变更。
func ApplyTransition(rep *Report, to Status) error {
	if rep == nil {
		return fmt.Errorf("report is nil")
	}
	if !CanTransition(rep.Status, to) {
		return fmt.Errorf("invalid damage report status transition: %s -> %s", rep.Status, to)
	}
	rep.Status = to
	return nil
}
