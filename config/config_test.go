package config

import (
	"testing"
	"time"
)

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCHOOL_AUTH_JWT_SECRET", "test-secret-key-for-config-2026")
	t.Setenv("SCHOOL_SERVER_PORT", "18080")
	t.Setenv("SCHOOL_DB_NAME", "school_ierp_test")
	t.Setenv("SCHOOL_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("SCHOOL_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 18080 {
		t.Errorf("期望 port=18080，实际=%d", cfg.Server.Port)
	}
	if cfg.Database.Name != "school_ierp_test" {
		t.Errorf("期望 db.name=school_ierp_test，实际=%s", cfg.Database.Name)
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("期望 rate_limit.window=30s，实际=%s", cfg.RateLimit.Window)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("期望 log.level=debug，实际=%s", cfg.Log.Level)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SCHOOL_AUTH_JWT_SECRET", "test-secret-key-for-config-2026")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("期望默认 port=8080，实际=%d", cfg.Server.Port)
	}
	if cfg.Auth.Issuer != "school-ierp" {
		t.Errorf("期望默认 issuer=school-ierp，实际=%s", cfg.Auth.Issuer)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("期望默认开启 /metrics，实际=%+v", cfg.Metrics)
	}
	if cfg.School.Timezone != "Asia/Shanghai" || cfg.Database.Timezone != cfg.School.Timezone {
		t.Errorf("学校时区与数据库时区默认应一致，实际 school=%s db=%s", cfg.School.Timezone, cfg.Database.Timezone)
	}
}

func TestLoad_SchoolTimezoneOverride(t *testing.T) {
	t.Setenv("SCHOOL_AUTH_JWT_SECRET", "test-secret-key-for-config-2026")
	t.Setenv("SCHOOL_SCHOOL_TIMEZONE", "America/New_York")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	loc, err := cfg.School.Location()
	if err != nil {
		t.Fatalf("Location 失败: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Errorf("期望 America/New_York，实际 %s", loc)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SCHOOL_AUTH_JWT_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatal("缺少 jwt_secret 时应返回错误")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:    ServerConfig{Port: 8080},
			Auth:      AuthConfig{JWTSecret: "0123456789abcdef"},
			RateLimit: RateLimitConfig{Enabled: true, Limit: 10, Window: time.Minute},
			School:    SchoolConfig{Timezone: "Asia/Shanghai"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法配置", func(c *Config) {}, false},
		{"密钥过短", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"限流窗口非法", func(c *Config) { c.RateLimit.Window = 0 }, true},
		{"关闭限流时忽略窗口", func(c *Config) { c.RateLimit = RateLimitConfig{} }, false},
		{"缺少学校时区", func(c *Config) { c.School.Timezone = "" }, true},
		{"未知学校时区", func(c *Config) { c.School.Timezone = "Mars/Olympus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
