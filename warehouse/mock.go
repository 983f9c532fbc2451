package warehouse

import (
	"context"

	"github.com/ceyewan/leaveagent/clog"
)

// mockClient 基于内置员工表的 mock 客户端（非导出）
type mockClient struct {
	logger    clog.Logger
	employees map[string]Employee
}

// mockEmployees 返回内置员工表
//
// 数据仅用于测试和降级兜底。
func mockEmployees() map[string]Employee {
	return map[string]Employee{
		"EMP001": {
			EmployeeID:   "EMP001",
			Name:         "John Doe",
			Country:      "US",
			Department:   "Engineering",
			JoinDate:     "2023-01-15",
			TenureMonths: 14,
			LeaveBalance: map[string]int{
				"PTO":            15,
				"Sick Leave":     10,
				"Parental Leave": 0,
			},
		},
		"EMP002": {
			EmployeeID:   "EMP002",
			Name:         "Jane Smith",
			Country:      "India",
			Department:   "Marketing",
			JoinDate:     "2022-06-01",
			TenureMonths: 20,
			LeaveBalance: map[string]int{
				"Privilege Leave":   12,
				"Casual Leave":      8,
				"Sick Leave":        12,
				"Optional Holidays": 3,
			},
		},
		"EMP003": {
			EmployeeID:   "EMP003",
			Name:         "Alice Johnson",
			Country:      "UK",
			Department:   "Sales",
			JoinDate:     "2024-01-01",
			TenureMonths: 2,
			LeaveBalance: map[string]int{
				"Annual Leave": 25,
				"Sick Leave":   10,
			},
		},
	}
}

// newMockClient 创建 mock 客户端（内部函数）
func newMockClient(logger clog.Logger) *mockClient {
	return &mockClient{
		logger:    logger,
		employees: mockEmployees(),
	}
}

func (c *mockClient) EmployeeByID(ctx context.Context, employeeID string) (*Employee, error) {
	c.logger.Debug("fetching employee from mock data", clog.String("employee_id", employeeID))

	emp, ok := c.employees[employeeID]
	if !ok {
		return nil, ErrEmployeeNotFound
	}

	// 返回副本，避免调用方修改内置表
	out := emp
	out.LeaveBalance = make(map[string]int, len(emp.LeaveBalance))
	for k, v := range emp.LeaveBalance {
		out.LeaveBalance[k] = v
	}
	return &out, nil
}

func (c *mockClient) EmployeesByCountry(ctx context.Context, country string) ([]Employee, error) {
	var out []Employee
	for _, emp := range c.employees {
		if emp.Country == country {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (c *mockClient) HealthCheck(ctx context.Context) bool {
	return true
}

func (c *mockClient) Stats() Stats {
	return Stats{Mode: "mock"}
}

func (c *mockClient) Close() error {
	return nil
}

// 编译期检查
var _ Client = (*mockClient)(nil)
