package config

import (
	"os"
	"strings"
	"testing"
)

func clearRedisEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_STREAM", "REDIS_GROUP", "REDIS_CONSUMER", "REDIS_STREAM_MAXLEN"} {
		t.Setenv(key, "")
	}
}

func TestGetRedisConfig_PublisherAndStoreShareStream(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantStream string
		wantGroup  string
	}{
		{"defaults", nil, "clima_questions", "clima_history"},
		{"stream override keeps group", map[string]string{"REDIS_STREAM": "perguntas"}, "perguntas", "clima_history"},
		{"group override keeps stream", map[string]string{"REDIS_GROUP": "auditoria"}, "clima_questions", "auditoria"},
		{"both", map[string]string{"REDIS_STREAM": "perguntas", "REDIS_GROUP": "auditoria"}, "perguntas", "auditoria"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearRedisEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			// the server publisher and cmd/store each call GetRedisConfig
			server := GetRedisConfig()
			store := GetRedisConfig()

			if server.Stream != tt.wantStream || store.Stream != tt.wantStream {
				t.Errorf("Stream = %q / %q, want %q", server.Stream, store.Stream, tt.wantStream)
			}
			if store.Group != tt.wantGroup {
				t.Errorf("Group = %q, want %q", store.Group, tt.wantGroup)
			}
			if store.Group == store.Stream {
				t.Errorf("Group and Stream should not share the name %q", store.Group)
			}
		})
	}
}

func TestGetRedisConfig_ConsumerNames(t *testing.T) {
	clearRedisEnv(t)

	a := GetRedisConfig()
	b := GetRedisConfig()
	if a.Consumer == "" || a.Consumer == b.Consumer {
		t.Errorf("Consumer names %q and %q should be distinct and non-empty", a.Consumer, b.Consumer)
	}
	if host, err := os.Hostname(); err == nil && host != "" && !strings.HasPrefix(a.Consumer, host+"-") {
		t.Errorf("Consumer = %q, want hostname prefix %q", a.Consumer, host)
	}

	t.Setenv("REDIS_CONSUMER", "store-1")
	if got := GetRedisConfig().Consumer; got != "store-1" {
		t.Errorf("Consumer = %q, want store-1", got)
	}
}

func TestGetRedisConfig_Numbers(t *testing.T) {
	tests := []struct {
		name       string
		db         string
		maxLen     string
		wantDB     int
		wantMaxLen int64
	}{
		{"unset", "", "", 0, 100000},
		{"set", "5", "500", 5, 500},
		{"zero keeps every entry", "0", "0", 0, 0},
		{"invalid", "invalid", "lots", 0, 100000},
		{"negative", "-1", "-10", 0, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearRedisEnv(t)
			t.Setenv("REDIS_DB", tt.db)
			t.Setenv("REDIS_STREAM_MAXLEN", tt.maxLen)

			cfg := GetRedisConfig()
			if cfg.DB != tt.wantDB {
				t.Errorf("DB = %d, want %d", cfg.DB, tt.wantDB)
			}
			if cfg.MaxLen != tt.wantMaxLen {
				t.Errorf("MaxLen = %d, want %d", cfg.MaxLen, tt.wantMaxLen)
			}
		})
	}
}

func TestGetRedisConfig_Connection(t *testing.T) {
	clearRedisEnv(t)
	if cfg := GetRedisConfig(); cfg.Addr != "localhost:6379" || cfg.Password != "" {
		t.Errorf("GetRedisConfig() = %+v, want localhost:6379 without password", cfg)
	}

	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_PASSWORD", "segredo")
	if cfg := GetRedisConfig(); cfg.Addr != "redis:6380" || cfg.Password != "segredo" {
		t.Errorf("GetRedisConfig() = %+v", cfg)
	}
}
