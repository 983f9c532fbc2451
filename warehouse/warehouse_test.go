package warehouse

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ceyewan/leaveagent/breaker"
)

func testBreakerConfig() breaker.Config {
	return breaker.Config{
		Name:             "warehouse-test",
		FailureThreshold: 2,
		OpenTimeout:      60 * time.Second,
		SuccessThreshold: 1,
	}
}

func TestNew(t *testing.T) {
	t.Run("nil 配置返回错误", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrConfigNil)
	})

	t.Run("DSN 为空时退回 mock 模式", func(t *testing.T) {
		client, err := New(&Config{Breaker: testBreakerConfig()})
		require.NoError(t, err)
		assert.Equal(t, "mock", client.Stats().Mode)
	})

	t.Run("UseMock 强制 mock 模式", func(t *testing.T) {
		client, err := New(&Config{UseMock: true, DSN: "ignored", Breaker: testBreakerConfig()})
		require.NoError(t, err)
		assert.Equal(t, "mock", client.Stats().Mode)
	})
}

func TestMockClient(t *testing.T) {
	client, err := New(&Config{UseMock: true, Breaker: testBreakerConfig()})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("按 ID 查询", func(t *testing.T) {
		emp, err := client.EmployeeByID(ctx, "EMP001")
		require.NoError(t, err)
		assert.Equal(t, "John Doe", emp.Name)
		assert.Equal(t, "US", emp.Country)
		assert.Equal(t, 15, emp.LeaveBalance["PTO"])
	})

	t.Run("返回副本，修改不影响内置表", func(t *testing.T) {
		emp, err := client.EmployeeByID(ctx, "EMP001")
		require.NoError(t, err)
		emp.LeaveBalance["PTO"] = 0

		again, err := client.EmployeeByID(ctx, "EMP001")
		require.NoError(t, err)
		assert.Equal(t, 15, again.LeaveBalance["PTO"])
	})

	t.Run("员工不存在", func(t *testing.T) {
		_, err := client.EmployeeByID(ctx, "EMP999")
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})

	t.Run("按国家查询", func(t *testing.T) {
		employees, err := client.EmployeesByCountry(ctx, "India")
		require.NoError(t, err)
		require.Len(t, employees, 1)
		assert.Equal(t, "Jane Smith", employees[0].Name)
	})

	t.Run("健康检查始终通过", func(t *testing.T) {
		assert.True(t, client.HealthCheck(ctx))
	})
}

// newSQLiteClient 创建以 SQLite 为后端的真实客户端并灌入测试数据
func newSQLiteClient(t *testing.T, seed bool) Client {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "warehouse.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Employee{}))

	if seed {
		for _, emp := range mockEmployees() {
			require.NoError(t, db.Create(&emp).Error)
		}
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	client, err := New(
		&Config{DSN: "real", Breaker: testBreakerConfig()},
		WithDialector(sqlite.Open(dsn)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGormClient(t *testing.T) {
	client := newSQLiteClient(t, true)
	ctx := context.Background()

	t.Run("模式为 real", func(t *testing.T) {
		stats := client.Stats()
		assert.Equal(t, "real", stats.Mode)
		assert.Equal(t, "closed", stats.Breaker.State)
	})

	t.Run("按 ID 查询", func(t *testing.T) {
		emp, err := client.EmployeeByID(ctx, "EMP002")
		require.NoError(t, err)
		assert.Equal(t, "Jane Smith", emp.Name)
		assert.Equal(t, 12, emp.LeaveBalance["Privilege Leave"])
	})

	t.Run("未找到不触发降级", func(t *testing.T) {
		_, err := client.EmployeeByID(ctx, "EMP999")
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
		// 未找到不是远程失败，熔断器保持闭合且无失败计数
		assert.Equal(t, 0, client.Stats().Breaker.FailureCount)
	})

	t.Run("按国家查询", func(t *testing.T) {
		employees, err := client.EmployeesByCountry(ctx, "UK")
		require.NoError(t, err)
		require.Len(t, employees, 1)
		assert.Equal(t, "Alice Johnson", employees[0].Name)
	})

	t.Run("健康检查通过", func(t *testing.T) {
		assert.True(t, client.HealthCheck(ctx))
	})
}

func TestGormClientFallback(t *testing.T) {
	// 不建表：所有远程查询都会失败，触发 mock 降级
	client := newSQLiteClient(t, false)
	ctx := context.Background()

	dropTable(t, client)

	t.Run("远程失败降级到 mock 数据", func(t *testing.T) {
		emp, err := client.EmployeeByID(ctx, "EMP001")
		require.NoError(t, err)
		assert.Equal(t, "John Doe", emp.Name)
	})

	t.Run("连续失败触发熔断后仍可降级", func(t *testing.T) {
		// FailureThreshold=2：再失败一次即熔断
		_, err := client.EmployeeByID(ctx, "EMP002")
		require.NoError(t, err)
		assert.Equal(t, "open", client.Stats().Breaker.State)

		// 熔断打开后的调用直接走降级，不再访问远程
		emp, err := client.EmployeeByID(ctx, "EMP003")
		require.NoError(t, err)
		assert.Equal(t, "Alice Johnson", emp.Name)
	})
}

// dropTable 删除员工表，制造远程查询失败
func dropTable(t *testing.T, client Client) {
	t.Helper()
	gc, ok := client.(*gormClient)
	require.True(t, ok)
	require.NoError(t, gc.db.Migrator().DropTable(&Employee{}))
}
