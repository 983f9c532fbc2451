package tool

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/policy"
)

// ========================================
// 政策查询工具 (Leave Policy Tool)
// ========================================

// PolicyTool 按国家和假期类型查询休假政策
type PolicyTool struct {
	catalog *policy.Catalog
	logger  clog.Logger
}

// NewPolicyTool 创建政策查询工具
func NewPolicyTool(catalog *policy.Catalog, logger clog.Logger) *PolicyTool {
	if logger == nil {
		logger = clog.Discard()
	}
	return &PolicyTool{catalog: catalog, logger: logger}
}

func (t *PolicyTool) Name() string { return "get_leave_policy" }

func (t *PolicyTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: t.Name(),
		Description: "Get leave policy details for a specific country and leave type. " +
			"Use when the user asks about leave allowances, carryover limits, notice periods, " +
			"approval requirements or available leave types. " +
			"If leave_type is not provided, returns all leave types for that country.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"country": {
					Type:        genai.TypeString,
					Description: "Country code (US, India, UK)",
					Enum:        t.catalog.Countries(),
				},
				"leave_type": {
					Type: genai.TypeString,
					Description: "Optional: specific leave type to query. " +
						"Examples: 'PTO', 'Sick Leave', 'Parental Leave', " +
						"'Privilege Leave', 'Casual Leave'",
				},
			},
			Required: []string{"country"},
		},
	}
}

func (t *PolicyTool) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	country := stringArg(args, "country")
	leaveType := stringArg(args, "leave_type")

	t.logger.Info("查询休假政策",
		clog.String("country", country), clog.String("leave_type", leaveType))

	canonical, ok := t.catalog.CountryName(country)
	if !ok {
		supported := t.catalog.Countries()
		return map[string]any{
			"success": false,
			"error": fmt.Sprintf("Country '%s' not supported. Supported countries are: %s",
				country, strings.Join(supported, ", ")),
			"supported_countries": supported,
		}, nil
	}

	if leaveType != "" {
		name, details, found := t.catalog.Lookup(canonical, leaveType)
		if !found {
			available := t.catalog.LeaveTypes(canonical)
			return map[string]any{
				"success": false,
				"error": fmt.Sprintf("Leave type '%s' not found for %s. Available types: %s",
					leaveType, canonical, strings.Join(available, ", ")),
				"country":               canonical,
				"available_leave_types": available,
			}, nil
		}
		return map[string]any{
			"success":    true,
			"country":    canonical,
			"leave_type": name,
			"policies":   map[string]policy.Policy{name: details},
		}, nil
	}

	policies, _ := t.catalog.Country(canonical)
	return map[string]any{
		"success":               true,
		"country":               canonical,
		"policies":              policies,
		"available_leave_types": t.catalog.LeaveTypes(canonical),
	}, nil
}

// 编译期检查
var _ Tool = (*PolicyTool)(nil)
