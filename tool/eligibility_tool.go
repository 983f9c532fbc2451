package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/policy"
	"github.com/ceyewan/leaveagent/warehouse"
	"github.com/ceyewan/leaveagent/xerrors"
)

// ========================================
// 资格检查工具 (Eligibility Tool)
// ========================================

// dateLayout 请假日期的输入格式
const dateLayout = "2006-01-02"

// EligibilityCheck 单项资格检查结果
type EligibilityCheck struct {
	CheckName string         `json:"check_name"`
	Passed    bool           `json:"passed"`
	Reason    string         `json:"reason"`
	Details   map[string]any `json:"details"`
}

// EligibilityTool 检查员工是否符合请假条件
//
// 检查项包括司龄要求、假期余额、提前通知期、
// 最长连休天数和封锁期。只有政策中定义了对应规则的
// 检查项才会执行。
type EligibilityTool struct {
	catalog   *policy.Catalog
	warehouse warehouse.Client
	logger    clog.Logger
	now       func() time.Time
}

// NewEligibilityTool 创建资格检查工具
func NewEligibilityTool(catalog *policy.Catalog, wh warehouse.Client, logger clog.Logger) *EligibilityTool {
	if logger == nil {
		logger = clog.Discard()
	}
	return &EligibilityTool{
		catalog:   catalog,
		warehouse: wh,
		logger:    logger,
		now:       time.Now,
	}
}

func (t *EligibilityTool) Name() string { return "check_leave_eligibility" }

func (t *EligibilityTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: t.Name(),
		Description: "Check if an employee is eligible to take a specific type of leave. " +
			"Use when the user asks whether they can take leave, whether they are eligible, " +
			"or whether they have enough balance. Returns eligibility status with detailed reasons.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"employee_id": {
					Type:        genai.TypeString,
					Description: "Employee ID (e.g., 'EMP001')",
				},
				"leave_type": {
					Type:        genai.TypeString,
					Description: "Type of leave to check eligibility for (e.g., 'PTO', 'Sick Leave', 'Parental Leave')",
				},
				"start_date": {
					Type:        genai.TypeString,
					Description: "Requested start date in YYYY-MM-DD format",
				},
				"days_requested": {
					Type:        genai.TypeInteger,
					Description: "Number of days requested",
				},
			},
			Required: []string{"employee_id", "leave_type"},
		},
	}
}

func (t *EligibilityTool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	employeeID := stringArg(args, "employee_id")
	leaveType := stringArg(args, "leave_type")
	startDate := stringArg(args, "start_date")
	daysRequested, hasDays := intArg(args, "days_requested")

	t.logger.Info("执行资格检查",
		clog.String("employee_id", employeeID),
		clog.String("leave_type", leaveType),
		clog.String("start_date", startDate))

	emp, err := t.warehouse.EmployeeByID(ctx, employeeID)
	if err != nil {
		if xerrors.Is(err, warehouse.ErrEmployeeNotFound) {
			return map[string]any{
				"success":     false,
				"eligible":    false,
				"error":       fmt.Sprintf("Employee %s not found", employeeID),
				"employee_id": employeeID,
			}, nil
		}
		return nil, err
	}

	name, details, found := t.catalog.Lookup(emp.Country, leaveType)
	if !found {
		return map[string]any{
			"success":     false,
			"eligible":    false,
			"error":       fmt.Sprintf("Leave type '%s' not found for country %s", leaveType, emp.Country),
			"employee_id": employeeID,
			"country":     emp.Country,
		}, nil
	}

	var checks []EligibilityCheck

	if details.EligibilityMonths > 0 {
		checks = append(checks, checkTenure(emp.TenureMonths, details.EligibilityMonths, name))
	}
	if hasDays && details.AnnualAllowance > 0 {
		checks = append(checks, checkBalance(emp.LeaveBalance[name], daysRequested, name))
	}
	if startDate != "" && details.MinNoticeDays > 0 {
		checks = append(checks, checkNoticePeriod(startDate, details.MinNoticeDays, name, t.now()))
	}
	if hasDays && details.MaxConsecutiveDays > 0 {
		checks = append(checks, checkConsecutiveDays(daysRequested, details.MaxConsecutiveDays, name))
	}
	if startDate != "" && len(details.BlackoutPeriods) > 0 {
		checks = append(checks, checkBlackoutPeriod(startDate, details.BlackoutPeriods, name))
	}

	eligible := true
	passed := 0
	var reasons []string
	for _, c := range checks {
		if c.Passed {
			passed++
		} else {
			eligible = false
			reasons = append(reasons, c.Reason)
		}
	}

	result := map[string]any{
		"success":       true,
		"eligible":      eligible,
		"employee_id":   employeeID,
		"employee_name": emp.Name,
		"country":       emp.Country,
		"leave_type":    name,
		"checks":        checks,
		"summary": map[string]any{
			"total_checks":  len(checks),
			"passed_checks": passed,
			"failed_checks": len(checks) - passed,
		},
	}
	if !eligible {
		result["reasons"] = reasons
	}

	t.logger.Info("资格检查完成",
		clog.String("employee_id", employeeID), clog.Bool("eligible", eligible))
	return result, nil
}

func checkTenure(tenureMonths, requiredMonths int, leaveType string) EligibilityCheck {
	passed := tenureMonths >= requiredMonths
	reason := fmt.Sprintf("Employee has %d months of tenure (required: %d months for %s)",
		tenureMonths, requiredMonths, leaveType)
	if !passed {
		reason = fmt.Sprintf("Insufficient tenure: %d months (need %d months for %s)",
			tenureMonths, requiredMonths, leaveType)
	}
	return EligibilityCheck{
		CheckName: "Tenure Requirement",
		Passed:    passed,
		Reason:    reason,
		Details: map[string]any{
			"current_tenure_months":  tenureMonths,
			"required_tenure_months": requiredMonths,
		},
	}
}

func checkBalance(currentBalance, daysRequested int, leaveType string) EligibilityCheck {
	passed := currentBalance >= daysRequested
	reason := fmt.Sprintf("Sufficient %s balance: %d days available (requesting %d days)",
		leaveType, currentBalance, daysRequested)
	details := map[string]any{
		"current_balance": currentBalance,
		"days_requested":  daysRequested,
	}
	if passed {
		details["remaining_after"] = currentBalance - daysRequested
	} else {
		reason = fmt.Sprintf("Insufficient %s balance: only %d days available (requesting %d days)",
			leaveType, currentBalance, daysRequested)
	}
	return EligibilityCheck{
		CheckName: "Leave Balance",
		Passed:    passed,
		Reason:    reason,
		Details:   details,
	}
}

func checkNoticePeriod(startDate string, minNoticeDays int, leaveType string, now time.Time) EligibilityCheck {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return EligibilityCheck{
			CheckName: "Notice Period",
			Passed:    false,
			Reason:    fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startDate),
			Details:   map[string]any{"error": err.Error()},
		}
	}

	daysNotice := int(start.Sub(now).Hours() / 24)
	passed := daysNotice >= minNoticeDays
	reason := fmt.Sprintf("Notice period met: %d days notice (required: %d days for %s)",
		daysNotice, minNoticeDays, leaveType)
	if !passed {
		reason = fmt.Sprintf("Insufficient notice: %d days (need %d days for %s)",
			daysNotice, minNoticeDays, leaveType)
	}
	return EligibilityCheck{
		CheckName: "Notice Period",
		Passed:    passed,
		Reason:    reason,
		Details: map[string]any{
			"days_notice_given":    daysNotice,
			"required_notice_days": minNoticeDays,
			"start_date":           startDate,
		},
	}
}

func checkConsecutiveDays(daysRequested, maxConsecutive int, leaveType string) EligibilityCheck {
	passed := daysRequested <= maxConsecutive
	reason := fmt.Sprintf("Within consecutive days limit: %d days (max: %d days for %s)",
		daysRequested, maxConsecutive, leaveType)
	if !passed {
		reason = fmt.Sprintf("Exceeds consecutive days limit: %d days (max: %d days for %s)",
			daysRequested, maxConsecutive, leaveType)
	}
	return EligibilityCheck{
		CheckName: "Consecutive Days Limit",
		Passed:    passed,
		Reason:    reason,
		Details: map[string]any{
			"days_requested":       daysRequested,
			"max_consecutive_days": maxConsecutive,
		},
	}
}

func checkBlackoutPeriod(startDate string, blackoutPeriods []string, leaveType string) EligibilityCheck {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return EligibilityCheck{
			CheckName: "Blackout Period",
			Passed:    false,
			Reason:    fmt.Sprintf("Invalid start date format: %s", startDate),
			Details:   map[string]any{"error": err.Error()},
		}
	}

	// 封锁期目前只有十二月窗口，匹配月份即命中
	for _, period := range blackoutPeriods {
		if containsDecember(period) && start.Month() == time.December {
			return EligibilityCheck{
				CheckName: "Blackout Period",
				Passed:    false,
				Reason: fmt.Sprintf("Leave request falls in blackout period: %s. %s cannot be taken during this time.",
					period, leaveType),
				Details: map[string]any{
					"start_date":      startDate,
					"blackout_period": period,
				},
			}
		}
	}

	return EligibilityCheck{
		CheckName: "Blackout Period",
		Passed:    true,
		Reason:    "Leave request does not fall in any blackout period",
		Details: map[string]any{
			"start_date":       startDate,
			"blackout_periods": blackoutPeriods,
		},
	}
}

func containsDecember(period string) bool {
	return strings.Contains(period, "Dec")
}

// 编译期检查
var _ Tool = (*EligibilityTool)(nil)
