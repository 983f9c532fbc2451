// Package policy 提供各国休假政策目录和查询能力。
//
// 政策目录为内置静态数据，按国家和假期类型两级组织。
// 查询对国家和假期类型均不区分大小写。
package policy

import "strings"

// Policy 单个假期类型的政策细则
//
// 数值字段为 0 表示该规则对此假期类型不适用。
type Policy struct {
	Description            string   `json:"description"`
	AnnualAllowance        int      `json:"annual_allowance,omitempty"`
	CarryoverLimit         int      `json:"carryover_limit"`
	MinNoticeDays          int      `json:"min_notice_days,omitempty"`
	MaxConsecutiveDays     int      `json:"max_consecutive_days,omitempty"`
	DocumentationAfterDays int      `json:"documentation_required_after_days,omitempty"`
	BlackoutPeriods        []string `json:"blackout_periods,omitempty"`
	ApprovalRequired       bool     `json:"approval_required,omitempty"`
	AllowanceWeeks         int      `json:"allowance_weeks,omitempty"`
	AllowanceDays          int      `json:"allowance_days,omitempty"`
	EligibilityMonths      int      `json:"eligibility_months,omitempty"`
	Paid                   bool     `json:"paid,omitempty"`
	EncashmentAllowed      bool     `json:"encashment_allowed,omitempty"`
	FromList               bool     `json:"from_list,omitempty"`
	AdvanceBookingRequired bool     `json:"advance_booking_required,omitempty"`
	StatutorySickPay       bool     `json:"statutory_sick_pay,omitempty"`
}

// Catalog 休假政策目录
type Catalog struct {
	countries []string                     // 保持稳定的展示顺序
	types     map[string][]string          // 国家 -> 假期类型（有序）
	policies  map[string]map[string]Policy // 国家 -> 假期类型 -> 政策
}

// Countries 返回支持的国家列表
func (c *Catalog) Countries() []string {
	out := make([]string, len(c.countries))
	copy(out, c.countries)
	return out
}

// LeaveTypes 返回指定国家的假期类型列表，国家不存在时返回 nil
func (c *Catalog) LeaveTypes(country string) []string {
	name, ok := c.normalizeCountry(country)
	if !ok {
		return nil
	}
	out := make([]string, len(c.types[name]))
	copy(out, c.types[name])
	return out
}

// Country 返回指定国家的全部政策
//
// 返回的 map 以规范化的假期类型名为键。国家不存在时 ok 为 false。
func (c *Catalog) Country(country string) (map[string]Policy, bool) {
	name, ok := c.normalizeCountry(country)
	if !ok {
		return nil, false
	}

	out := make(map[string]Policy, len(c.policies[name]))
	for k, v := range c.policies[name] {
		out[k] = v
	}
	return out, true
}

// Lookup 查询指定国家和假期类型的政策
//
// 返回规范化的假期类型名和政策。未找到时 ok 为 false。
func (c *Catalog) Lookup(country, leaveType string) (string, Policy, bool) {
	name, ok := c.normalizeCountry(country)
	if !ok {
		return "", Policy{}, false
	}

	for policyName, details := range c.policies[name] {
		if strings.EqualFold(policyName, strings.TrimSpace(leaveType)) {
			return policyName, details, true
		}
	}
	return "", Policy{}, false
}

// HasCountry 判断国家是否受支持
func (c *Catalog) HasCountry(country string) bool {
	_, ok := c.normalizeCountry(country)
	return ok
}

// CountryName 返回国家的规范化名称
func (c *Catalog) CountryName(country string) (string, bool) {
	return c.normalizeCountry(country)
}

// normalizeCountry 将用户输入映射到目录中的规范国家名（内部使用）
func (c *Catalog) normalizeCountry(country string) (string, bool) {
	trimmed := strings.TrimSpace(country)
	for _, name := range c.countries {
		if strings.EqualFold(name, trimmed) {
			return name, true
		}
	}
	return "", false
}
