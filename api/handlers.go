package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ceyewan/leaveagent/agent"
	"github.com/ceyewan/leaveagent/clog"
)

// ========================================
// 请求与响应模型 (Request / Response Models)
// ========================================

// ChatRequest 对话请求
type ChatRequest struct {
	Message     string         `json:"message" binding:"required,min=1,max=10000"`
	SessionID   string         `json:"session_id"`
	UserContext map[string]any `json:"user_context"`
}

// ChatResponse 对话响应
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// ========================================
// 处理器 (Handlers)
// ========================================

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Leave Policy Assistant Agent",
		"version": serviceVersion,
		"status":  "running",
		"endpoints": gin.H{
			"chat":    "/chat",
			"reset":   "/reset/{session_id}",
			"health":  "/health",
			"stats":   "/stats",
			"metrics": "/metrics",
		},
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	// 未携带会话 ID 时生成新会话
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if s.deps.Limiter != nil && !s.deps.Limiter.Allow(sessionID) {
		abortWithError(c, http.StatusTooManyRequests,
			"Too many requests for this session, please slow down")
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.ChatMessagesTotal.Inc()
	}

	reply, err := s.deps.Agent.Chat(c.Request.Context(), agent.Request{
		SessionID:   sessionID,
		Message:     req.Message,
		UserContext: req.UserContext,
	})
	if err != nil {
		s.logger.Error("对话处理失败",
			clog.String("session_id", sessionID), clog.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Error processing request")
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:  reply,
		SessionID: sessionID,
		Timestamp: timestamp(),
	})
}

func (s *Server) handleReset(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := s.deps.Agent.ResetSession(c.Request.Context(), sessionID); err != nil {
		s.logger.Error("会话重置失败",
			clog.String("session_id", sessionID), clog.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Error resetting session")
		return
	}

	if s.deps.Limiter != nil {
		s.deps.Limiter.Forget(sessionID)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "Session " + sessionID + " reset",
		"timestamp": timestamp(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	agentHealthy := s.deps.Agent != nil

	warehouseHealthy := false
	warehouseStats := gin.H{}
	if s.deps.Warehouse != nil {
		warehouseHealthy = s.deps.Warehouse.HealthCheck(c.Request.Context())
		stats := s.deps.Warehouse.Stats()
		warehouseStats = gin.H{
			"mode":            stats.Mode,
			"circuit_breaker": stats.Breaker,
		}
	}

	var guardStatuses any
	if s.deps.Guards != nil {
		guardStatuses = s.deps.Guards.Statuses()
	}

	// mock 模式下数据仓库连通性不参与整体健康判定
	mode, _ := warehouseStats["mode"].(string)
	overall := agentHealthy && (warehouseHealthy || mode == "mock")

	status := "healthy"
	if !overall {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": timestamp(),
		"components": gin.H{
			"agent": gin.H{
				"status":      componentStatus(agentHealthy),
				"initialized": agentHealthy,
			},
			"warehouse":      warehouseStats,
			"circuit_guards": guardStatuses,
		},
	})
}

func (s *Server) handleStats(c *gin.Context) {
	stats := gin.H{
		"agent": gin.H{
			"model":       s.deps.Model,
			"tools_count": len(s.deps.Tools),
			"tools":       s.deps.Tools,
		},
		"timestamp": timestamp(),
	}
	if s.deps.Guards != nil {
		stats["circuit_guards"] = s.deps.Guards.Statuses()
	}
	if s.deps.Warehouse != nil {
		stats["warehouse"] = s.deps.Warehouse.Stats()
	}

	c.JSON(http.StatusOK, stats)
}

func componentStatus(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "unhealthy"
}
