// Package warehouse 提供员工数据仓库客户端，支持真实数据库和 mock 两种模式。
//
// 真实模式下所有远程查询都经过熔断器保护；熔断拒绝或远程失败时
// 自动降级到内置 mock 数据，保证上层對话流程可用（优雅降级）。
//
// ## 基本使用
//
//	client, _ := warehouse.New(&warehouse.Config{
//		DSN: "user:pass@tcp(localhost:3306)/hr",
//		Breaker: breaker.Config{
//			Name:             "warehouse",
//			FailureThreshold: 5,
//			OpenTimeout:      60 * time.Second,
//			SuccessThreshold: 2,
//		},
//	}, warehouse.WithLogger(logger))
//
//	emp, err := client.EmployeeByID(ctx, "EMP001")
package warehouse

import (
	"context"

	"github.com/ceyewan/leaveagent/breaker"
	"github.com/ceyewan/leaveagent/clog"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Client 员工数据仓库客户端接口
type Client interface {
	// EmployeeByID 按员工 ID 查询
	//
	// 员工不存在时返回 ErrEmployeeNotFound。
	EmployeeByID(ctx context.Context, employeeID string) (*Employee, error)

	// EmployeesByCountry 查询指定国家的全部员工
	EmployeesByCountry(ctx context.Context, country string) ([]Employee, error)

	// HealthCheck 检查数据仓库连接是否健康
	HealthCheck(ctx context.Context) bool

	// Stats 返回客户端统计信息
	Stats() Stats

	// Close 关闭底层连接
	Close() error
}

// Employee 员工记录
type Employee struct {
	EmployeeID   string         `json:"employee_id" gorm:"column:employee_id;primaryKey"`
	Name         string         `json:"name" gorm:"column:name"`
	Country      string         `json:"country" gorm:"column:country"`
	Department   string         `json:"department" gorm:"column:department"`
	JoinDate     string         `json:"join_date" gorm:"column:join_date"`
	TenureMonths int            `json:"tenure_months" gorm:"column:tenure_months"`
	LeaveBalance map[string]int `json:"leave_balance" gorm:"column:leave_balance;serializer:json"`
}

// TableName 指定 GORM 表名
func (Employee) TableName() string {
	return "employees"
}

// Stats 客户端统计信息
type Stats struct {
	Mode    string         `json:"mode"` // mock|real
	Breaker breaker.Status `json:"circuit_breaker"`
}

// Config 数据仓库客户端配置
type Config struct {
	// UseMock 强制使用 mock 模式
	UseMock bool `json:"use_mock" yaml:"use_mock"`

	// DSN 数据库连接串，为空时自动退回 mock 模式
	DSN string `json:"dsn" yaml:"dsn"`

	// Breaker 熔断器配置
	Breaker breaker.Config `json:"breaker" yaml:"breaker"`
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 创建数据仓库客户端
//
// UseMock 为 true 或 DSN 为空时返回纯 mock 客户端；
// 否则返回带熔断保护和 mock 降级的真实客户端。
func New(cfg *Config, opts ...Option) (Client, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}

	logger := opt.logger
	if logger == nil {
		logger = clog.Discard()
	}

	if cfg.UseMock || (cfg.DSN == "" && opt.dialector == nil) {
		logger.Info("warehouse client initialized (mock mode)")
		return newMockClient(logger), nil
	}

	return newGormClient(cfg, logger, &opt)
}
