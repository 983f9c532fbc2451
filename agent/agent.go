// Package agent 实现休假政策助手的对话核心。
//
// 每轮对话的流程：加载会话历史，输入防护清理，
// 带工具声明调用模型，循环执行模型请求的函数调用，
// 输出防护过滤，最后落盘会话。模型访问隐藏在
// ModelClient 接口后，便于测试注入脚本化实现。
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/guardrail"
	"github.com/ceyewan/leaveagent/session"
	"github.com/ceyewan/leaveagent/tool"
)

// ========================================
// 常量定义 (Constants)
// ========================================

// systemInstructions 智能体的系统提示词
const systemInstructions = `You are a helpful Leave Policy Assistant for a global company.

Your role is to help employees understand leave policies and check their leave eligibility.

Key responsibilities:
1. Answer questions about leave policies (PTO, sick leave, parental leave, etc.)
2. Check if employees are eligible for specific types of leave
3. Explain leave rules, requirements, and restrictions
4. Help employees understand their leave balance

Important guidelines:
- Always be friendly, professional, and helpful
- Ask for employee ID when needed for eligibility checks
- Clarify which country's policies apply if not specified
- Explain policy requirements clearly (tenure, notice period, etc.)
- Handle edge cases gracefully (invalid dates, unknown leave types)
- If information is missing, politely ask for it
- Never make up policy details - use the tools to get accurate information

Available tools:
- get_leave_policy: Get policy details for a country and leave type
- check_leave_eligibility: Check if an employee is eligible for leave

When users ask about leave:
1. First, understand what country they're in (US, India, UK)
2. Identify the leave type they're asking about
3. Use the get_leave_policy tool to fetch accurate information
4. Present the information in a clear, friendly way

For eligibility questions:
1. Ask for employee ID if not provided
2. Ask for leave type if not clear
3. Use check_leave_eligibility tool with all relevant parameters
4. Explain the results clearly, including why they are/aren't eligible

Remember: Always maintain context across the conversation. If a user asks a follow-up question, remember what you discussed earlier.`

// apologyMessage 模型调用失败时的兜底回复
const apologyMessage = "I apologize, but I encountered an error processing your request. " +
	"Please try again or contact support if the issue persists."

// tooComplexMessage 工具循环达到上限时的兜底回复
const tooComplexMessage = "I've gathered the information, but the response became too complex. " +
	"Could you please rephrase your question or break it into smaller parts?"

// defaultMaxToolIterations 工具循环的默认上限
const defaultMaxToolIterations = 5

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Request 一轮对话的输入
type Request struct {
	// SessionID 会话标识
	SessionID string

	// Message 用户消息
	Message string

	// UserContext 可选的用户上下文（employee_id、country 等），
	// 会拼接到系统提示词中
	UserContext map[string]any
}

// Agent 对话智能体接口
type Agent interface {
	// Chat 处理一轮对话并返回助手回复
	Chat(ctx context.Context, req Request) (string, error)

	// ResetSession 清空会话历史
	ResetSession(ctx context.Context, sessionID string) error
}

// Config 智能体配置
type Config struct {
	// Model 使用的模型名
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey 模型 API 密钥
	APIKey string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`

	// MaxToolIterations 单轮对话中工具循环的最大次数，默认 5
	MaxToolIterations int `json:"max_tool_iterations" yaml:"max_tool_iterations" mapstructure:"max_tool_iterations"`
}

// ========================================
// 实现 (Implementation)
// ========================================

type leaveAgent struct {
	model         ModelClient
	tools         *tool.Registry
	sessions      session.Store
	input         *guardrail.InputFilter
	output        *guardrail.OutputFilter
	logger        clog.Logger
	maxIterations int
}

// New 创建智能体
//
// model 为 nil 时按配置创建 genai 客户端。
func New(cfg *Config, tools *tool.Registry, sessions session.Store, opts ...Option) (Agent, error) {
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

	model := opt.model
	if model == nil {
		var err error
		model, err = newGeminiClient(context.Background(), cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	maxIterations := cfg.MaxToolIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxToolIterations
	}

	logger.Info("智能体已初始化",
		clog.String("model", cfg.Model),
		clog.Int("max_tool_iterations", maxIterations))

	return &leaveAgent{
		model:         model,
		tools:         tools,
		sessions:      sessions,
		input:         guardrail.NewInputFilter(logger.WithNamespace("guardrail.input")),
		output:        guardrail.NewOutputFilter(logger.WithNamespace("guardrail.output")),
		logger:        logger,
		maxIterations: maxIterations,
	}, nil
}

func (a *leaveAgent) Chat(ctx context.Context, req Request) (string, error) {
	history, err := a.sessions.Load(ctx, req.SessionID)
	if err != nil {
		return "", err
	}

	inputResult := a.input.Check(req.Message)
	if !inputResult.Passed {
		a.logger.Warn("输入存在安全问题，已清理后继续",
			clog.String("session_id", req.SessionID),
			clog.Any("issues", inputResult.Issues))
	}
	message := inputResult.Content

	contents := a.buildContents(history, message, req.UserContext)

	response := a.runToolLoop(ctx, contents)

	outputResult := a.output.Check(response)
	final := outputResult.Content

	history = append(history,
		session.Message{Role: "user", Content: message},
		session.Message{Role: "model", Content: final},
	)
	if err := a.sessions.Save(ctx, req.SessionID, history); err != nil {
		// 会话保存失败不影响本轮回复，下一轮会丢失上下文
		a.logger.Error("会话保存失败",
			clog.String("session_id", req.SessionID), clog.Error(err))
	}

	return final, nil
}

func (a *leaveAgent) ResetSession(ctx context.Context, sessionID string) error {
	a.logger.Info("重置会话", clog.String("session_id", sessionID))
	return a.sessions.Delete(ctx, sessionID)
}

// buildContents 把会话历史和当前消息组装成模型输入
func (a *leaveAgent) buildContents(history []session.Message, message string, userContext map[string]any) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	current := message
	if len(userContext) > 0 {
		if data, err := json.Marshal(userContext); err == nil {
			current = fmt.Sprintf("%s\n\nUser Context: %s", message, data)
		}
	}
	return append(contents, genai.NewContentFromText(current, genai.RoleUser))
}

// runToolLoop 调用模型并执行其请求的函数调用，直到产出最终文本
func (a *leaveAgent) runToolLoop(ctx context.Context, contents []*genai.Content) string {
	decls := a.tools.Declarations()

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		a.logger.Debug("调用模型", clog.Int("iteration", iteration))

		turn, err := a.model.Generate(ctx, contents, decls)
		if err != nil {
			a.logger.Error("模型调用失败", clog.Error(err))
			return apologyMessage
		}

		if len(turn.FunctionCalls) == 0 {
			return turn.Text
		}

		// 模型请求了函数调用：原样回传模型内容，再附上每个调用的结果
		contents = append(contents, turn.Content)
		for _, call := range turn.FunctionCalls {
			a.logger.Info("执行工具调用",
				clog.String("tool", call.Name), clog.Any("args", call.Args))

			result, err := a.tools.Call(ctx, call.Name, call.Args)
			if err != nil {
				// 未注册的工具和基础设施故障以错误结果回传，
				// 让模型自行解释而不是中断整轮对话
				result = map[string]any{"error": fmt.Sprintf("tool %s failed: %v", call.Name, err)}
			}
			contents = append(contents,
				genai.NewContentFromFunctionResponse(call.Name, result, genai.RoleUser))
		}
	}

	a.logger.Warn("工具循环达到上限", clog.Int("max_iterations", a.maxIterations))
	return tooComplexMessage
}
