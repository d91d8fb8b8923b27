package engine

import (
	"strings"
	"testing"
)

func TestConfig_DefaultsValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"threshold above one", func(c *Config) { c.FilledThreshold = 1.2 }, "filled_threshold"},
		{"negative coverage target", func(c *Config) { c.CoverageTarget = -0.1 }, "coverage_target"},
		{"zero ask cost", func(c *Config) { c.AskCost = 0 }, "ask_cost"},
		{"zero rrf k", func(c *Config) { c.RRFK = 0 }, "rrf_k"},
		{"negative stop voi", func(c *Config) { c.StopVoI = -1 }, "stop_voi"},
		{"zero staleness tau", func(c *Config) { c.StalenessTau = 0 }, "staleness_tau"},
		{"all fill weights zero", func(c *Config) { c.FillWeights = FillWeights{} }, "fill weights"},
		{"unknown delta model", func(c *Config) { c.DeltaModel = "oracle" }, "delta model"},
		{"zero max turns", func(c *Config) { c.MaxTurns = 0 }, "max_turns"},
		{"bundle of one", func(c *Config) { c.BundleMaxSize = 1 }, "bundle_max_size"},
		{"negative retries", func(c *Config) { c.RetrievalRetries = -1 }, "retrieval_retries"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
