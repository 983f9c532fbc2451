package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ceyewan/leaveagent/policy"
	"github.com/ceyewan/leaveagent/session"
	"github.com/ceyewan/leaveagent/tool"
	"github.com/ceyewan/leaveagent/warehouse"
	"github.com/ceyewan/leaveagent/xerrors"
)

// fakeModel 脚本化模型客户端，按序返回预设结果
type fakeModel struct {
	turns    []*ModelTurn
	errs     []error
	requests [][]*genai.Content
}

func (f *fakeModel) Generate(_ context.Context, contents []*genai.Content, _ []*genai.FunctionDeclaration) (*ModelTurn, error) {
	idx := len(f.requests)
	f.requests = append(f.requests, contents)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx >= len(f.turns) {
		// 脚本耗尽后重复最后一个结果
		return f.turns[len(f.turns)-1], nil
	}
	return f.turns[idx], nil
}

func textTurn(text string) *ModelTurn {
	return &ModelTurn{
		Text:    text,
		Content: genai.NewContentFromText(text, genai.RoleModel),
	}
}

func callTurn(name string, args map[string]any) *ModelTurn {
	call := &genai.FunctionCall{Name: name, Args: args}
	return &ModelTurn{
		FunctionCalls: []*genai.FunctionCall{call},
		Content: &genai.Content{
			Role:  genai.RoleModel,
			Parts: []*genai.Part{{FunctionCall: call}},
		},
	}
}

func newTestAgent(t *testing.T, model ModelClient) (Agent, session.Store) {
	t.Helper()

	catalog := policy.Default()
	wh, err := warehouse.New(&warehouse.Config{UseMock: true})
	require.NoError(t, err)

	reg := tool.NewRegistry()
	reg.Register(tool.NewPolicyTool(catalog, nil))
	reg.Register(tool.NewEligibilityTool(catalog, wh, nil))

	sessions, err := session.New(&session.Config{Backend: "memory", TTL: time.Minute})
	require.NoError(t, err)

	a, err := New(&Config{Model: "test-model", MaxToolIterations: 5},
		reg, sessions, WithModelClient(model))
	require.NoError(t, err)
	return a, sessions
}

func TestChatPlainResponse(t *testing.T) {
	model := &fakeModel{turns: []*ModelTurn{
		textTurn("In the US you get 20 PTO days per year."),
	}}
	a, sessions := newTestAgent(t, model)

	reply, err := a.Chat(context.Background(), Request{
		SessionID: "s1",
		Message:   "How many PTO days do I get in the US?",
	})
	require.NoError(t, err)
	assert.Equal(t, "In the US you get 20 PTO days per year.", reply)

	history, err := sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, reply, history[1].Content)
}

func TestChatToolCallFlow(t *testing.T) {
	model := &fakeModel{turns: []*ModelTurn{
		callTurn("get_leave_policy", map[string]any{"country": "US", "leave_type": "PTO"}),
		textTurn("US PTO allows 20 days per year with 5 days carryover."),
	}}
	a, _ := newTestAgent(t, model)

	reply, err := a.Chat(context.Background(), Request{
		SessionID: "s1",
		Message:   "Tell me about US PTO.",
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "20 days")

	// 第二次模型调用应携带函数调用内容和工具结果
	require.Len(t, model.requests, 2)
	second := model.requests[1]
	assert.Greater(t, len(second), len(model.requests[0]))
}

func TestChatUnknownToolFedBack(t *testing.T) {
	model := &fakeModel{turns: []*ModelTurn{
		callTurn("no_such_tool", map[string]any{}),
		textTurn("I could not use that capability."),
	}}
	a, _ := newTestAgent(t, model)

	reply, err := a.Chat(context.Background(), Request{SessionID: "s1", Message: "hi there, assistant."})
	require.NoError(t, err)
	assert.Equal(t, "I could not use that capability.", reply)
	assert.Len(t, model.requests, 2)
}

func TestChatModelErrorYieldsApology(t *testing.T) {
	model := &fakeModel{
		turns: []*ModelTurn{textTurn("unused placeholder text.")},
		errs:  []error{xerrors.New("upstream unavailable")},
	}
	a, _ := newTestAgent(t, model)

	reply, err := a.Chat(context.Background(), Request{SessionID: "s1", Message: "hello there."})
	require.NoError(t, err)
	assert.Contains(t, reply, "I apologize")
}

func TestChatIterationCap(t *testing.T) {
	// 模型永远请求工具调用，循环应在上限处停止
	model := &fakeModel{turns: []*ModelTurn{
		callTurn("get_leave_policy", map[string]any{"country": "US"}),
	}}
	a, _ := newTestAgent(t, model)

	reply, err := a.Chat(context.Background(), Request{SessionID: "s1", Message: "Tell me everything."})
	require.NoError(t, err)
	assert.Contains(t, reply, "rephrase your question")
	assert.Len(t, model.requests, 5)
}

func TestChatMasksPIIBeforeModel(t *testing.T) {
	model := &fakeModel{turns: []*ModelTurn{
		textTurn("I can help without your SSN, thanks for asking."),
	}}
	a, sessions := newTestAgent(t, model)

	_, err := a.Chat(context.Background(), Request{
		SessionID: "s1",
		Message:   "My SSN is 123-45-6789, can I take PTO?",
	})
	require.NoError(t, err)

	history, err := sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotContains(t, history[0].Content, "123-45-6789")
	assert.Contains(t, history[0].Content, "***-**-****")
}

func TestResetSession(t *testing.T) {
	model := &fakeModel{turns: []*ModelTurn{textTurn("Sure, happy to help you.")}}
	a, sessions := newTestAgent(t, model)
	ctx := context.Background()

	_, err := a.Chat(ctx, Request{SessionID: "s1", Message: "hello there."})
	require.NoError(t, err)

	require.NoError(t, a.ResetSession(ctx, "s1"))

	history, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.ErrorIs(t, err, ErrConfigNil)
}
