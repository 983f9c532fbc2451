package warehouse

import (
	"context"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ceyewan/leaveagent/breaker"
	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/xerrors"
)

// gormClient 真实数据仓库客户端（非导出）
//
// 所有远程查询经过熔断器；熔断拒绝和远程失败统一降级到 mock 数据。
// 两种情况对降级决策等价，但错误种类保持可区分（ErrOpenState vs 原始错误），
// 由调用方决定是否需要区分告警。
type gormClient struct {
	db       *gorm.DB
	guard    breaker.Breaker
	fallback *mockClient
	logger   clog.Logger
}

// newGormClient 创建真实客户端（内部函数）
func newGormClient(cfg *Config, logger clog.Logger, opt *options) (Client, error) {
	dialector := opt.dialector
	if dialector == nil {
		dialector = mysql.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, xerrors.Wrap(err, "warehouse: failed to open database")
	}

	guardOpts := []breaker.Option{breaker.WithLogger(logger)}
	if opt.clock != nil {
		guardOpts = append(guardOpts, breaker.WithClock(opt.clock))
	}
	if opt.onStateChange != nil {
		guardOpts = append(guardOpts, breaker.WithOnStateChange(opt.onStateChange))
	}
	guard, err := breaker.New(&cfg.Breaker, guardOpts...)
	if err != nil {
		return nil, err
	}

	if opt.registry != nil {
		opt.registry.Register(cfg.Breaker.Name, guard)
	}

	logger.Info("warehouse client initialized (real mode)")

	return &gormClient{
		db:       db,
		guard:    guard,
		fallback: newMockClient(logger),
		logger:   logger,
	}, nil
}

func (c *gormClient) EmployeeByID(ctx context.Context, employeeID string) (*Employee, error) {
	emp, err := breaker.Run(ctx, c.guard, func() (*Employee, error) {
		return c.queryEmployee(ctx, employeeID)
	})
	if err != nil {
		if breaker.IsOpen(err) {
			c.logger.Error("circuit breaker open, falling back to mock data",
				clog.String("employee_id", employeeID))
		} else {
			c.logger.Error("error querying warehouse, falling back to mock data",
				clog.String("employee_id", employeeID), clog.Error(err))
		}
		return c.fallback.EmployeeByID(ctx, employeeID)
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

func (c *gormClient) EmployeesByCountry(ctx context.Context, country string) ([]Employee, error) {
	employees, err := breaker.Run(ctx, c.guard, func() ([]Employee, error) {
		var out []Employee
		if err := c.db.WithContext(ctx).Where("country = ?", country).Find(&out).Error; err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		c.logger.Error("error querying employees by country, falling back to mock data",
			clog.String("country", country), clog.Error(err))
		return c.fallback.EmployeesByCountry(ctx, country)
	}
	return employees, nil
}

// queryEmployee 从数据库查询单个员工
//
// 未找到不算远程失败，返回 nil 员工和 nil 错误，避免误计入熔断统计。
func (c *gormClient) queryEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	var emp Employee
	err := c.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Limit(1).
		Take(&emp).Error
	if err != nil {
		if xerrors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Debug("employee not found in warehouse", clog.String("employee_id", employeeID))
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (c *gormClient) HealthCheck(ctx context.Context) bool {
	sqlDB, err := c.db.DB()
	if err != nil {
		c.logger.Error("warehouse health check failed", clog.Error(err))
		return false
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		c.logger.Error("warehouse health check failed", clog.Error(err))
		return false
	}
	return true
}

func (c *gormClient) Stats() Stats {
	return Stats{
		Mode:    "real",
		Breaker: c.guard.Status(),
	}
}

func (c *gormClient) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.logger.Info("closing warehouse connection")
	return sqlDB.Close()
}

// 编译期检查
var _ Client = (*gormClient)(nil)
