package factory

import (
	"path/filepath"
	"testing"

	"github.com/mikey/mail-triage/internal/adapters/breaker"
	"github.com/mikey/mail-triage/internal/adapters/cache"
	"github.com/mikey/mail-triage/internal/adapters/openai"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newConfig(settings map[string]interface{}) (*config.Config, *viper.Viper) {
	v := config.NewEmptyViper()
	for k, val := range settings {
		v.Set(k, val)
	}
	return config.NewFromViper(v), v
}

func TestLLMFactory(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		wantNil  bool
		wantErr  bool
		check    func(t *testing.T, client interface{})
	}{
		{
			name:     "none",
			settings: map[string]interface{}{"llm.provider": "none"},
			wantNil:  true,
		},
		{
			name:     "unsupported",
			settings: map[string]interface{}{"llm.provider": "watson"},
			wantErr:  true,
		},
		{
			name:     "openai without key",
			settings: map[string]interface{}{"llm.provider": "openai"},
			wantNil:  true,
		},
		{
			name:     "gemini without key",
			settings: map[string]interface{}{"llm.provider": "gemini"},
			wantNil:  true,
		},
		{
			name: "openai behind breaker",
			settings: map[string]interface{}{
				"llm.provider":    "openai",
				"openai.api_key":  "sk-test",
				"breaker.enabled": true,
			},
			check: func(t *testing.T, client interface{}) {
				if _, ok := client.(*breaker.Client); !ok {
					t.Errorf("client = %T, want *breaker.Client", client)
				}
			},
		},
		{
			name: "openai without breaker",
			settings: map[string]interface{}{
				"llm.provider":    "openai",
				"openai.api_key":  "sk-test",
				"breaker.enabled": false,
			},
			check: func(t *testing.T, client interface{}) {
				if _, ok := client.(*openai.OpenAIClient); !ok {
					t.Errorf("client = %T, want *openai.OpenAIClient", client)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := newConfig(tt.settings)
			client, err := NewLLMFactory(cfg, zap.NewNop()).CreateLLMClient()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateLLMClient failed: %v", err)
			}
			if tt.wantNil {
				if client != nil {
					t.Errorf("expected nil client, got %T", client)
				}
				return
			}
			if client.ModelName() != "gpt-3.5-turbo" {
				t.Errorf("model = %q", client.ModelName())
			}
			tt.check(t, client)
		})
	}
}

func TestCacheFactory(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		settings map[string]interface{}
		wantType string
		wantErr  bool
	}{
		{"disabled", map[string]interface{}{"cache.enabled": false}, "<nil>", false},
		{"none", map[string]interface{}{"cache.type": "none"}, "<nil>", false},
		{"memory", map[string]interface{}{"cache.type": "memory"}, "*cache.MemoryCache", false},
		{"sqlite", map[string]interface{}{
			"cache.type":        "sqlite",
			"cache.sqlite_path": filepath.Join(dir, "nested", "cache.db"),
		}, "*cache.SQLiteCache", false},
		{"unsupported", map[string]interface{}{"cache.type": "redis"}, "", true},
		{"bad ttl", map[string]interface{}{"cache.ttl": "forever"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := newConfig(tt.settings)
			repo, err := NewCacheFactory(cfg, zap.NewNop()).CreateCacheRepository()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateCacheRepository failed: %v", err)
			}

			got := "<nil>"
			switch r := repo.(type) {
			case *cache.MemoryCache:
				got = "*cache.MemoryCache"
				r.Stop()
			case *cache.SQLiteCache:
				got = "*cache.SQLiteCache"
				r.Stop()
			}
			if got != tt.wantType {
				t.Errorf("repository = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestFilterFactory_CreateSMTPFilter(t *testing.T) {
	cfg, _ := newConfig(map[string]interface{}{
		"server.listen_address":   "127.0.0.1:0",
		"server.reinject.address": "mta.internal",
		"server.reinject.port":    10026,
	})
	f := NewFilterFactory(cfg, zap.NewNop(), nil, nil, nil)

	smtpFilter, err := f.CreateSMTPFilter()
	if err != nil {
		t.Fatalf("CreateSMTPFilter failed: %v", err)
	}
	if smtpFilter.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", smtpFilter.Addr())
	}

	_, v := newConfig(nil)
	v.Set("server.read_timeout", "soon")
	if _, err := NewFilterFactory(config.NewFromViper(v), zap.NewNop(), nil, nil, nil).CreateSMTPFilter(); err == nil {
		t.Error("expected an error for an invalid read timeout")
	}
}
