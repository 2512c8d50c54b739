package config

import "testing"

func TestLoadRequiresUpstreamURL(t *testing.T) {
	t.Setenv("ROUTER_UPSTREAM_URL", "")
	t.Setenv("ROUTER_UPSTREAM_TIMEOUT_MS", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("Load() expected an error when ROUTER_UPSTREAM_URL is unset")
	}
}

func TestLoadDefaultsTimeout(t *testing.T) {
	t.Setenv("ROUTER_UPSTREAM_URL", "https://overpass.example/api/interpreter")
	t.Setenv("ROUTER_UPSTREAM_TIMEOUT_MS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UpstreamTimeoutMS != defaultUpstreamTimeoutMS {
		t.Errorf("UpstreamTimeoutMS = %d, want default %d", cfg.UpstreamTimeoutMS, defaultUpstreamTimeoutMS)
	}
}

func TestLoadReadsTimeoutOverride(t *testing.T) {
	t.Setenv("ROUTER_UPSTREAM_URL", "https://overpass.example/api/interpreter")
	t.Setenv("ROUTER_UPSTREAM_TIMEOUT_MS", "5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UpstreamTimeoutMS != 5000 {
		t.Errorf("UpstreamTimeoutMS = %d, want 5000", cfg.UpstreamTimeoutMS)
	}
	if cfg.UpstreamTimeout().Seconds() != 5 {
		t.Errorf("UpstreamTimeout() = %v, want 5s", cfg.UpstreamTimeout())
	}
}
