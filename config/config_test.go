package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// 空目录下加载，全部使用默认值
	loader := NewLoader(t.TempDir())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "gemini-2.0-flash", cfg.Agent.Model)
	assert.Equal(t, 5, cfg.Agent.MaxToolIterations)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "warehouse", cfg.Warehouse.Breaker.Name)
	assert.Equal(t, 5, cfg.Warehouse.Breaker.FailureThreshold)
	assert.Equal(t, 60*time.Second, cfg.Warehouse.Breaker.OpenTimeout)
	assert.Equal(t, 2, cfg.Warehouse.Breaker.SuccessThreshold)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 9090
  mode: debug
agent:
  model: gemini-2.0-pro
warehouse:
  use_mock: true
  breaker:
    failure_threshold: 3
    open_timeout: 30s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	loader := NewLoader(dir)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "gemini-2.0-pro", cfg.Agent.Model)
	assert.True(t, cfg.Warehouse.UseMock)
	assert.Equal(t, 3, cfg.Warehouse.Breaker.FailureThreshold)
	assert.Equal(t, 30*time.Second, cfg.Warehouse.Breaker.OpenTimeout)
	// 文件未覆盖的字段仍使用默认值
	assert.Equal(t, 2, cfg.Warehouse.Breaker.SuccessThreshold)
}

func TestLoadFromConfigsDir(t *testing.T) {
	// 服务入口的调用方式：工作目录下的 configs/config.yaml 必须被加载
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	content := "server:\n  port: 9191\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte(content), 0o644))

	t.Chdir(dir)

	cfg, err := NewLoader(".", "./configs").Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))

	loader := NewLoader(dir)
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)

	changed := make(chan *Config, 4)
	loader.Watch(func(next *Config) {
		select {
		case changed <- next:
		default:
		}
	})

	// 等监听建立后再写入变更
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9292\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case next := <-changed:
			if next.Server.Port == 9292 {
				return
			}
		case <-deadline:
			t.Fatal("config change callback did not deliver the new value")
		}
	}
}

func TestWatchWithoutConfigFile(t *testing.T) {
	loader := NewLoader(t.TempDir())
	_, err := loader.Load()
	require.NoError(t, err)

	// 未找到配置文件时 Watch 不启动监听，回调不应触发
	loader.Watch(func(*Config) {
		t.Error("callback fired without a config file")
	})
	time.Sleep(100 * time.Millisecond)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LEAVE_SERVER_PORT", "7070")
	t.Setenv("LEAVE_SESSION_BACKEND", "memory")

	loader := NewLoader(t.TempDir())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	t.Run("redis 后端缺少地址", func(t *testing.T) {
		dir := t.TempDir()
		content := "session:\n  backend: redis\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

		_, err := NewLoader(dir).Load()
		assert.ErrorIs(t, err, ErrConfigInvalid)
	})

	t.Run("非法会话后端", func(t *testing.T) {
		dir := t.TempDir()
		content := "session:\n  backend: dynamo\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

		_, err := NewLoader(dir).Load()
		assert.ErrorIs(t, err, ErrConfigInvalid)
	})

	t.Run("端口越界", func(t *testing.T) {
		dir := t.TempDir()
		content := "server:\n  port: 70000\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

		_, err := NewLoader(dir).Load()
		assert.ErrorIs(t, err, ErrConfigInvalid)
	})
}
