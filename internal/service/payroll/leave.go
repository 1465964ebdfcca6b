package payroll

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// LeaveDeductionCalculator charges approved leave of the unpaid type at the
// daily rate. Leave of any other type is paid and costs nothing.
type LeaveDeductionCalculator struct {
	unpaidType string
}

func NewLeaveDeductionCalculator(unpaidType string) *LeaveDeductionCalculator {
	if unpaidType == "" {
		unpaidType = leave.UnpaidLeaveType
	}
	return &LeaveDeductionCalculator{unpaidType: unpaidType}
}

// UnpaidDays counts the inclusive days of approved unpaid leave.
func (c *LeaveDeductionCalculator) UnpaidDays(leaves []leave.ApprovedLeave) int {
	days := 0
	for _, l := range leaves {
		if !c.Charges(l) {
			continue
		}
		days += l.Days()
	}
	return days
}

// Charges reports whether l is approved leave of the unpaid type.
func (c *LeaveDeductionCalculator) Charges(l leave.ApprovedLeave) bool {
	return l.IsApproved() && l.IsType(c.unpaidType)
}

func (c *LeaveDeductionCalculator) UnpaidDeduction(leaves []leave.ApprovedLeave, dailyRate decimal.Decimal) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(c.UnpaidDays(leaves))))
}
