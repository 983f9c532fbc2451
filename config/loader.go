package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/leaveagent/xerrors"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "LEAVE"

// Loader 配置加载器
type Loader struct {
	v *viper.Viper
}

// NewLoader 创建配置加载器
//
// paths 为配置文件的搜索目录（非文件路径），在每个目录下查找
// config.yaml。为空时使用 ["."、"./configs"]。
func NewLoader(paths ...string) *Loader {
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	// 环境变量优先级最高
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 注册全部已知键，否则仅靠 AutomaticEnv 无法让环境变量参与 Unmarshal
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("agent.model", "gemini-2.0-flash")
	v.SetDefault("agent.api_key", "")
	v.SetDefault("agent.max_tool_iterations", 5)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.redis.addr", "")
	v.SetDefault("session.redis.password", "")
	v.SetDefault("session.redis.db", 0)
	v.SetDefault("warehouse.use_mock", false)
	v.SetDefault("warehouse.dsn", "")
	v.SetDefault("warehouse.breaker.name", "warehouse")
	v.SetDefault("warehouse.breaker.failure_threshold", 5)
	v.SetDefault("warehouse.breaker.open_timeout", "60s")
	v.SetDefault("warehouse.breaker.success_threshold", 2)
	v.SetDefault("guardrail.rate_limit", 5)
	v.SetDefault("guardrail.rate_burst", 10)

	return &Loader{v: v}
}

// Load 从所有来源加载配置
//
// 配置文件缺失不视为错误（全部使用环境变量和默认值运行），
// 文件存在但解析失败才返回错误。
func (l *Loader) Load() (*Config, error) {
	// .env 文件尽力加载，缺失时忽略
	_ = godotenv.Load()

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, xerrors.Wrap(err, "config: failed to read config file")
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, xerrors.Wrap(err, "config: failed to unmarshal")
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Watch 监听配置文件变更
//
// 每次变更会重新加载并将新配置传给回调；解析失败时保留旧配置并忽略本次变更。
// 未找到配置文件时（纯环境变量运行）不启动监听。
func (l *Loader) Watch(fn func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg := &Config{}
		if err := l.v.Unmarshal(cfg); err != nil {
			fmt.Printf("Warning: failed to reload config after %s: %v\n", e.Name, err)
			return
		}
		cfg.setDefaults()
		if err := cfg.validate(); err != nil {
			fmt.Printf("Warning: reloaded config invalid: %v\n", err)
			return
		}
		fn(cfg)
	})
	l.v.WatchConfig()
}
