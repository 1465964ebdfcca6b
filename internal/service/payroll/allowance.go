package payroll

import (
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type allowanceTier struct {
	name     string
	keywords []string
	rice     int64
	phone    int64
	clothing int64
}

func (t allowanceTier) matches(position string) bool {
	for _, kw := range t.keywords {
		if strings.Contains(position, kw) {
			return true
		}
	}
	return false
}

func (t allowanceTier) allowances() payroll.Allowances {
	return payroll.Allowances{
		Tier:     t.name,
		Rice:     decimal.NewFromInt(t.rice),
		Phone:    decimal.NewFromInt(t.phone),
		Clothing: decimal.NewFromInt(t.clothing),
	}
}

// Order matters: the first matching tier wins.
var allowanceTiers = []allowanceTier{
	{name: "executive", keywords: []string{"chief", "ceo"}, rice: 1500, phone: 2000, clothing: 1000},
	{name: "manager", keywords: []string{"manager", "head"}, rice: 1500, phone: 1000, clothing: 1000},
	{name: "leader", keywords: []string{"leader"}, rice: 1500, phone: 800, clothing: 800},
}

var defaultAllowanceTier = allowanceTier{name: "default", rice: 1500, phone: 500, clothing: 500}

// AllowanceResolver maps a position title to its monthly allowances.
type AllowanceResolver struct{}

func NewAllowanceResolver() *AllowanceResolver {
	return &AllowanceResolver{}
}

func (r *AllowanceResolver) Resolve(positionClassification string) payroll.Allowances {
	position := strings.ToLower(positionClassification)
	for _, tier := range allowanceTiers {
		if tier.matches(position) {
			return tier.allowances()
		}
	}
	return defaultAllowanceTier.allowances()
}
