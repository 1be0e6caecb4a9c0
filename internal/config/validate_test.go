package config_test

import (
	"testing"

	"jobby-engine/internal/config"
)

func validConfig() config.Config {
	var cfg config.Config
	cfg.App.Port = 8787
	cfg.App.DataDir = "./data"
	cfg.Search.BaseURL = "https://api.openwebninja.com/jsearch"
	cfg.Search.APIKeys = []string{"k1"}
	cfg.Search.RequestsPerSecond = 1
	return cfg
}

func TestNormalizeAndValidate_OK(t *testing.T) {
	_, res := config.NormalizeAndValidate(validConfig())
	if !res.OK() {
		t.Errorf("valid config rejected: %v", res.Errors)
	}
}

func TestNormalizeAndValidate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = 0
	_, res := config.NormalizeAndValidate(cfg)
	if res.OK() {
		t.Error("port 0 should be an error")
	}
}

func TestNormalizeAndValidate_BadBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Search.BaseURL = "not a url"
	_, res := config.NormalizeAndValidate(cfg)
	if res.OK() {
		t.Error("malformed base_url should be an error")
	}
}

func TestNormalizeAndValidate_TrimsKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Search.APIKeys = []string{" k1 ", "", "k1", "k2"}
	out, res := config.NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(out.Search.APIKeys) != 2 || out.Search.APIKeys[0] != "k1" || out.Search.APIKeys[1] != "k2" {
		t.Errorf("APIKeys = %v", out.Search.APIKeys)
	}
}

func TestNormalizeAndValidate_NoKeysIsWarningOnly(t *testing.T) {
	cfg := validConfig()
	cfg.Search.APIKeys = nil
	_, res := config.NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Errorf("missing keys should only warn: %v", res.Errors)
	}
	if len(res.Warnings) == 0 {
		t.Error("missing keys should produce a warning")
	}
}
