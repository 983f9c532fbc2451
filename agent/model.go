package agent

import (
	"context"

	"google.golang.org/genai"

	"github.com/ceyewan/leaveagent/clog"
	"github.com/ceyewan/leaveagent/xerrors"
)

// ========================================
// 模型客户端 (Model Client)
// ========================================

// ModelTurn 模型一次推理的产出
type ModelTurn struct {
	// Text 模型生成的文本，存在函数调用时可能为空
	Text string

	// FunctionCalls 模型请求执行的函数调用
	FunctionCalls []*genai.FunctionCall

	// Content 模型原始内容，带函数调用继续对话时需要原样回传
	Content *genai.Content
}

// ModelClient 模型访问接口，测试中用脚本化实现替换
type ModelClient interface {
	// Generate 携带工具声明执行一次推理
	Generate(ctx context.Context, contents []*genai.Content, decls []*genai.FunctionDeclaration) (*ModelTurn, error)
}

// geminiClient 基于 genai SDK 的模型客户端
type geminiClient struct {
	client *genai.Client
	model  string
	logger clog.Logger
}

func newGeminiClient(ctx context.Context, cfg *Config, logger clog.Logger) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, xerrors.Wrap(err, "agent: create genai client failed")
	}

	return &geminiClient{client: client, model: cfg.Model, logger: logger}, nil
}

func (c *geminiClient) Generate(ctx context.Context, contents []*genai.Content, decls []*genai.FunctionDeclaration) (*ModelTurn, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstructions, genai.RoleUser),
	}
	if len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, xerrors.Wrap(err, "agent: generate content failed")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, xerrors.New("agent: empty model response")
	}

	return &ModelTurn{
		Text:          resp.Text(),
		FunctionCalls: resp.FunctionCalls(),
		Content:       resp.Candidates[0].Content,
	}, nil
}

// 编译期检查
var _ ModelClient = (*geminiClient)(nil)
