package clog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("nil 配置使用默认值", func(t *testing.T) {
		logger, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("非法日志级别返回错误", func(t *testing.T) {
		_, err := New(&Config{Level: "verbose"})
		assert.Error(t, err)
	})

	t.Run("非法输出格式返回错误", func(t *testing.T) {
		_, err := New(&Config{Format: "xml"})
		assert.Error(t, err)
	})

	t.Run("json 格式可创建", func(t *testing.T) {
		logger, err := New(&Config{Level: "debug", Format: "json"})
		require.NoError(t, err)
		logger.Debug("debug message", String("k", "v"))
		logger.Info("info message", Int("n", 1))
	})
}

func TestWithNamespace(t *testing.T) {
	logger, err := New(&Config{Level: "error"})
	require.NoError(t, err)

	child := logger.WithNamespace("warehouse", "guard")
	assert.NotNil(t, child)
	// 子 Logger 不影响父 Logger
	child.Error("namespaced", Error(nil))
	logger.Error("plain")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("ignored")
	assert.Equal(t, logger, logger.With(String("k", "v")))
	assert.Equal(t, logger, logger.WithNamespace("x"))
}
