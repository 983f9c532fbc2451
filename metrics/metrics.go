// Package metrics 提供基于 Prometheus 的服务指标。
//
// 指标集合挂在独立的 Registry 上，避免污染全局默认注册表，
// 测试中也因此可以并行创建多个实例。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ceyewan/leaveagent/breaker"
)

// ========================================
// 指标定义 (Metric Definitions)
// ========================================

// Metrics 服务指标集合
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal HTTP 请求计数，按端点和状态码分标签
	RequestsTotal *prometheus.CounterVec

	// RequestDuration HTTP 请求耗时直方图，按端点分标签
	RequestDuration *prometheus.HistogramVec

	// ChatMessagesTotal 处理的对话消息总数
	ChatMessagesTotal prometheus.Counter

	// GuardStateChanges 熔断器状态切换计数，按名称和目标状态分标签
	GuardStateChanges *prometheus.CounterVec
}

// New 创建指标集合并完成注册
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_assistant_requests_total",
			Help: "Total HTTP requests",
		}, []string{"endpoint", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leave_assistant_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ChatMessagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leave_assistant_chat_messages_total",
			Help: "Total chat messages processed",
		}),
		GuardStateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_assistant_guard_state_changes_total",
			Help: "Circuit guard state transitions",
		}, []string{"name", "state"}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ChatMessagesTotal,
		m.GuardStateChanges,
	)
	return m
}

// Handler 返回指标抓取端点的 HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGuardTransition 记录一次熔断器状态切换
//
// 签名与熔断器的状态变更回调对齐，可直接挂接。
func (m *Metrics) ObserveGuardTransition(name string, from, to breaker.State) {
	m.GuardStateChanges.WithLabelValues(name, to.String()).Inc()
}
