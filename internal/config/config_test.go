package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tmp := t.TempDir()

	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid single-tenant config",
			config: Config{
				Port:           "8081",
				DataDir:        filepath.Join(tmp, "data"),
				StaticDir:      filepath.Join(tmp, "static"),
				DefaultAccount: "financas",
			},
			wantErr: false,
		},
		{
			name: "valid multi-tenant config",
			config: Config{
				Port:           "8081",
				DataDir:        filepath.Join(tmp, "data"),
				StaticDir:      filepath.Join(tmp, "static"),
				DefaultAccount: "financas",
				AuthEnabled:    true,
				AuthDBPath:     filepath.Join(tmp, "data", "usuarios.db"),
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:           "abc",
				DataDir:        filepath.Join(tmp, "data"),
				StaticDir:      filepath.Join(tmp, "static"),
				DefaultAccount: "financas",
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:           "70000",
				DataDir:        filepath.Join(tmp, "data"),
				StaticDir:      filepath.Join(tmp, "static"),
				DefaultAccount: "financas",
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "empty data directory",
			config: Config{
				Port:           "8081",
				DataDir:        "",
				StaticDir:      filepath.Join(tmp, "static"),
				DefaultAccount: "financas",
			},
			wantErr:     true,
			errorString: "data directory cannot be empty",
		},
		{
			name: "empty default account",
			config: Config{
				Port:           "8081",
				DataDir:        filepath.Join(tmp, "data"),
				StaticDir:      filepath.Join(tmp, "static"),
				DefaultAccount: "",
			},
			wantErr:     true,
			errorString: "default account cannot be empty",
		},
		{
			name: "auth enabled without db path",
			config: Config{
				Port:           "8081",
				DataDir:        filepath.Join(tmp, "data"),
				StaticDir:      filepath.Join(tmp, "static"),
				DefaultAccount: "financas",
				AuthEnabled:    true,
				AuthDBPath:     "",
			},
			wantErr:     true,
			errorString: "auth database path cannot be empty when auth is enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("expected default port 8081, got %s", cfg.Port)
	}
	if cfg.DefaultAccount != "financas" {
		t.Errorf("expected default account financas, got %s", cfg.DefaultAccount)
	}
	if cfg.AuthEnabled {
		t.Error("auth should be disabled by default")
	}
	if cfg.DevMode {
		t.Error("dev mode should be disabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("DEFAULT_ACCOUNT", "casa")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.AuthEnabled {
		t.Error("expected auth enabled")
	}
	if cfg.DefaultAccount != "casa" {
		t.Errorf("expected account casa, got %s", cfg.DefaultAccount)
	}
}
