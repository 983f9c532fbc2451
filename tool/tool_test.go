package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/leaveagent/policy"
	"github.com/ceyewan/leaveagent/warehouse"
)

func newTestWarehouse(t *testing.T) warehouse.Client {
	t.Helper()
	client, err := warehouse.New(&warehouse.Config{UseMock: true})
	require.NoError(t, err)
	return client
}

func TestRegistry(t *testing.T) {
	catalog := policy.Default()
	reg := NewRegistry()
	reg.Register(NewPolicyTool(catalog, nil))
	reg.Register(NewEligibilityTool(catalog, newTestWarehouse(t), nil))

	t.Run("Get", func(t *testing.T) {
		tl, ok := reg.Get("get_leave_policy")
		require.True(t, ok)
		assert.Equal(t, "get_leave_policy", tl.Name())
	})

	t.Run("Declarations", func(t *testing.T) {
		decls := reg.Declarations()
		require.Len(t, decls, 2)
		assert.Equal(t, "get_leave_policy", decls[0].Name)
		assert.Equal(t, "check_leave_eligibility", decls[1].Name)
	})

	t.Run("CallUnknown", func(t *testing.T) {
		_, err := reg.Call(context.Background(), "no_such_tool", nil)
		assert.ErrorIs(t, err, ErrToolNotFound)
	})
}

func TestPolicyTool(t *testing.T) {
	tl := NewPolicyTool(policy.Default(), nil)
	ctx := context.Background()

	t.Run("AllTypesForCountry", func(t *testing.T) {
		result, err := tl.Call(ctx, map[string]any{"country": "US"})
		require.NoError(t, err)
		assert.Equal(t, true, result["success"])
		assert.Equal(t, "US", result["country"])
		assert.ElementsMatch(t,
			[]string{"PTO", "Sick Leave", "Parental Leave"},
			result["available_leave_types"])
	})

	t.Run("SpecificLeaveType", func(t *testing.T) {
		result, err := tl.Call(ctx, map[string]any{"country": "US", "leave_type": "PTO"})
		require.NoError(t, err)
		assert.Equal(t, true, result["success"])
		policies := result["policies"].(map[string]policy.Policy)
		assert.Equal(t, 20, policies["PTO"].AnnualAllowance)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		result, err := tl.Call(ctx, map[string]any{"country": "india", "leave_type": "casual leave"})
		require.NoError(t, err)
		assert.Equal(t, true, result["success"])
		assert.Equal(t, "India", result["country"])
		assert.Equal(t, "Casual Leave", result["leave_type"])
	})

	t.Run("UnknownCountry", func(t *testing.T) {
		result, err := tl.Call(ctx, map[string]any{"country": "DE"})
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
		assert.Contains(t, result["error"], "not supported")
	})

	t.Run("UnknownLeaveType", func(t *testing.T) {
		result, err := tl.Call(ctx, map[string]any{"country": "UK", "leave_type": "Sabbatical"})
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
		assert.Contains(t, result["error"], "Available types")
	})
}

func TestEligibilityTool(t *testing.T) {
	catalog := policy.Default()
	wh := newTestWarehouse(t)
	ctx := context.Background()

	newTool := func() *EligibilityTool {
		tl := NewEligibilityTool(catalog, wh, nil)
		tl.now = func() time.Time {
			return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		}
		return tl
	}

	t.Run("Eligible", func(t *testing.T) {
		result, err := newTool().Call(ctx, map[string]any{
			"employee_id":    "EMP001",
			"leave_type":     "PTO",
			"start_date":     "2025-06-15",
			"days_requested": float64(5),
		})
		require.NoError(t, err)
		assert.Equal(t, true, result["success"])
		assert.Equal(t, true, result["eligible"])
		assert.Equal(t, "John Doe", result["employee_name"])

		checks := result["checks"].([]EligibilityCheck)
		assert.Len(t, checks, 4)
		summary := result["summary"].(map[string]any)
		assert.Equal(t, 4, summary["passed_checks"])
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		result, err := newTool().Call(ctx, map[string]any{
			"employee_id":    "EMP001",
			"leave_type":     "PTO",
			"days_requested": float64(20),
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["eligible"])
		reasons := result["reasons"].([]string)
		assert.Contains(t, reasons[0], "Insufficient PTO balance")
	})

	t.Run("BlackoutPeriod", func(t *testing.T) {
		result, err := newTool().Call(ctx, map[string]any{
			"employee_id": "EMP001",
			"leave_type":  "PTO",
			"start_date":  "2025-12-25",
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["eligible"])

		var blackout *EligibilityCheck
		for _, c := range result["checks"].([]EligibilityCheck) {
			if c.CheckName == "Blackout Period" {
				blackout = &c
				break
			}
		}
		require.NotNil(t, blackout)
		assert.False(t, blackout.Passed)
		assert.Contains(t, blackout.Reason, "Dec 20-31")
	})

	t.Run("InsufficientTenure", func(t *testing.T) {
		// EMP003 入职两个月，UK 育儿假要求 12 个月司龄
		result, err := newTool().Call(ctx, map[string]any{
			"employee_id": "EMP003",
			"leave_type":  "Parental Leave",
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["eligible"])
		reasons := result["reasons"].([]string)
		assert.Contains(t, reasons[0], "Insufficient tenure")
	})

	t.Run("ExceedsConsecutiveDays", func(t *testing.T) {
		result, err := newTool().Call(ctx, map[string]any{
			"employee_id":    "EMP002",
			"leave_type":     "Casual Leave",
			"days_requested": float64(5),
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["eligible"])
	})

	t.Run("EmployeeNotFound", func(t *testing.T) {
		result, err := newTool().Call(ctx, map[string]any{
			"employee_id": "EMP999",
			"leave_type":  "PTO",
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
		assert.Contains(t, result["error"], "not found")
	})

	t.Run("UnknownLeaveType", func(t *testing.T) {
		result, err := newTool().Call(ctx, map[string]any{
			"employee_id": "EMP001",
			"leave_type":  "Sabbatical",
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
		assert.Contains(t, result["error"], "Sabbatical")
	})

	t.Run("InvalidStartDate", func(t *testing.T) {
		result, err := newTool().Call(ctx, map[string]any{
			"employee_id": "EMP001",
			"leave_type":  "PTO",
			"start_date":  "25/12/2025",
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["eligible"])
	})
}
