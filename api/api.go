// Package api 提供休假政策助手的 REST 接口。
//
// 基于 gin 实现，挂载日志、指标和 CORS 中间件。
// 错误响应统一为 {error, status_code, timestamp} 结构。
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ceyewan/leaveagent/agent"
	"github.com/ceyewan/leaveagent/breaker"
	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/config"
	"github.com/ceyewan/leaveagent/guardrail"
	"github.com/ceyewan/leaveagent/metrics"
	"github.com/ceyewan/leaveagent/warehouse"
)

// serviceVersion 对外暴露的服务版本号
const serviceVersion = "1.0.0"

// ========================================
// 服务定义 (Server)
// ========================================

// Deps 服务依赖集合
type Deps struct {
	Agent     agent.Agent
	Warehouse warehouse.Client
	Guards    *breaker.Registry
	Metrics   *metrics.Metrics
	Limiter   *guardrail.RateLimiter
	Logger    clog.Logger

	// Model 展示在 /stats 中的模型名
	Model string

	// Tools 展示在 /stats 中的工具名列表
	Tools []string
}

// Server HTTP 服务
type Server struct {
	cfg    *config.ServerConfig
	deps   Deps
	logger clog.Logger
	engine *gin.Engine
	http   *http.Server
}

// New 创建 HTTP 服务
func New(cfg *config.ServerConfig, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = clog.Discard()
	}

	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(metrics.GinHTTPMiddleware(deps.Metrics))
	engine.Use(corsMiddleware())

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		engine: engine,
	}
	s.registerRoutes()
	return s
}

// Handler 返回底层 HTTP 处理器，测试中直接驱动
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start 启动 HTTP 服务并阻塞直到服务退出
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	s.logger.Info("HTTP 服务启动", clog.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅关闭 HTTP 服务
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.POST("/chat", s.handleChat)
	s.engine.POST("/reset/:session_id", s.handleReset)
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/stats", s.handleStats)
	if s.deps.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}
}

// ========================================
// 中间件 (Middleware)
// ========================================

func requestLogger(logger clog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			clog.String("method", c.Request.Method),
			clog.String("path", c.Request.URL.Path),
			clog.Int("status", c.Writer.Status()),
			clog.Duration("duration", time.Since(start)))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// ========================================
// 错误响应 (Error Responses)
// ========================================

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":       message,
		"status_code": status,
		"timestamp":   timestamp(),
	})
}
