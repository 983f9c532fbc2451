// 休假政策助手服务入口。
//
// 组装顺序：配置 -> 日志 -> 指标 -> 政策目录 -> 熔断器注册表 ->
// 数据仓库 -> 会话存储 -> 工具 -> 智能体 -> HTTP 服务。
// 收到 SIGINT/SIGTERM 后优雅关停。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceyewan/leaveagent/agent"
	"github.com/ceyewan/leaveagent/api"
	"github.com/ceyewan/leaveagent/breaker"
	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/config"
	"github.com/ceyewan/leaveagent/guardrail"
	"github.com/ceyewan/leaveagent/metrics"
	"github.com/ceyewan/leaveagent/policy"
	"github.com/ceyewan/leaveagent/session"
	"github.com/ceyewan/leaveagent/tool"
	"github.com/ceyewan/leaveagent/warehouse"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	loader := config.NewLoader(".", "./configs")
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logger, err := clog.New(&cfg.Log)
	if err != nil {
		return err
	}
	logger.Info("配置加载完成",
		clog.String("server_mode", cfg.Server.Mode),
		clog.String("session_backend", cfg.Session.Backend))

	// 配置文件变更时记录新值，运行中的组件仍沿用启动时的配置
	loader.Watch(func(next *config.Config) {
		logger.Info("配置文件已变更",
			clog.String("log_level", next.Log.Level),
			clog.Float64("guardrail_rate_limit", next.Guardrail.RateLimit))
	})

	m := metrics.New()
	catalog := policy.Default()
	guards := breaker.NewRegistry()

	wh, err := warehouse.New(&warehouse.Config{
		UseMock: cfg.Warehouse.UseMock,
		DSN:     cfg.Warehouse.DSN,
		Breaker: cfg.Warehouse.Breaker,
	},
		warehouse.WithLogger(logger),
		warehouse.WithRegistry(guards),
		warehouse.WithGuardStateChange(m.ObserveGuardTransition),
	)
	if err != nil {
		return err
	}

	sessions, err := session.New(&session.Config{
		Backend:       cfg.Session.Backend,
		TTL:           cfg.Session.TTL,
		RedisAddr:     cfg.Session.Redis.Addr,
		RedisPassword: cfg.Session.Redis.Password,
		RedisDB:       cfg.Session.Redis.DB,
	}, session.WithLogger(logger.WithNamespace("session")))
	if err != nil {
		return err
	}

	tools := tool.NewRegistry()
	tools.Register(tool.NewPolicyTool(catalog, logger.WithNamespace("tool.policy")))
	tools.Register(tool.NewEligibilityTool(catalog, wh, logger.WithNamespace("tool.eligibility")))

	assistant, err := agent.New(&agent.Config{
		Model:             cfg.Agent.Model,
		APIKey:            cfg.Agent.APIKey,
		MaxToolIterations: cfg.Agent.MaxToolIterations,
	}, tools, sessions, agent.WithLogger(logger.WithNamespace("agent")))
	if err != nil {
		return err
	}

	server := api.New(&cfg.Server, api.Deps{
		Agent:     assistant,
		Warehouse: wh,
		Guards:    guards,
		Metrics:   m,
		Limiter:   guardrail.NewRateLimiter(cfg.Guardrail.RateLimit, cfg.Guardrail.RateBurst),
		Logger:    logger.WithNamespace("api"),
		Model:     cfg.Agent.Model,
		Tools:     []string{"get_leave_policy", "check_leave_eligibility"},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("收到退出信号，开始优雅关停", clog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP 服务关停失败", clog.Error(err))
	}
	if err := wh.Close(); err != nil {
		logger.Error("数据仓库连接关闭失败", clog.Error(err))
	}

	logger.Info("服务已退出")
	return nil
}
