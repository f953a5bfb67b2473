package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

/*
Cases:
- YAML file populates every section and defaults fill the gaps.
- Environment variables override file values.
- Unsupported formats and invalid sections are rejected.
- Report settings validate independently once flags are merged.
*/

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleYAML = `
auth:
  username: demo
  password: secret
market:
  base_url: https://seffaflik.epias.com.tr
  timeout_seconds: 30
  price_delay_ms: 50
plants:
  paths:
    - testdata/pp_list.json
report:
  plant1: Soma RES
  plant2: Dinar RES
  start_date: "2024-01-01"
  end_date: "2024-06-30"
  csv: true
metrics:
  sinks:
    - type: nop
logging:
  level: debug
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", sampleYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"auth.username", cfg.Auth.Username, "demo"},
		{"auth.password", cfg.Auth.Password, "secret"},
		{"auth.cas_url_default", cfg.Auth.CasURL != "", true},
		{"market.base_url", cfg.Market.BaseURL, "https://seffaflik.epias.com.tr"},
		{"market.timeout_seconds", cfg.Market.TimeoutSeconds, 30},
		{"market.price_delay_ms", cfg.Market.PriceDelayMS, 50},
		{"market.plant_delay_default", cfg.Market.PlantDelayMS, 200},
		{"plants.path", cfg.Plants.Paths[0], "testdata/pp_list.json"},
		{"report.plant1", cfg.Report.Plant1, "Soma RES"},
		{"report.plant2", cfg.Report.Plant2, "Dinar RES"},
		{"report.start_date", cfg.Report.StartDate, "2024-01-01"},
		{"report.csv", cfg.Report.CSV, true},
		{"report.output_dir_default", cfg.Report.OutputDir, "."},
		{"metrics.sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"logging.level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", sampleYAML)

	t.Setenv("SANTRAL_AUTH__PASSWORD", "env-pass")
	t.Setenv("SANTRAL_LOGGING__LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Password != "env-pass" {
		t.Errorf("auth.password not overridden: %q", cfg.Auth.Password)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level not overridden: %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	if _, err := Load(writeConfig(t, "config.toml", "x = 1")); err == nil {
		t.Error("expected error for unsupported format")
	}

	noPassword := strings.Replace(sampleYAML, "password: secret", "password: \"\"", 1)
	if _, err := Load(writeConfig(t, "config.yaml", noPassword)); err == nil {
		t.Error("expected error for missing password")
	} else if !strings.Contains(err.Error(), "auth") {
		t.Errorf("error should name the auth section: %v", err)
	}

	badLevel := strings.Replace(sampleYAML, "level: debug", "level: chatty", 1)
	if _, err := Load(writeConfig(t, "config.yaml", badLevel)); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestReportConfigValidate(t *testing.T) {
	base := ReportConfig{
		Plant1:    "Soma RES",
		Plant2:    "Dinar RES",
		StartDate: "2024-01-01",
		EndDate:   "2024-06-30",
	}

	cases := []struct {
		name    string
		mutate  func(*ReportConfig)
		wantErr bool
	}{
		{"complete", func(r *ReportConfig) {}, false},
		{"missing plant", func(r *ReportConfig) { r.Plant2 = "" }, true},
		{"same plant", func(r *ReportConfig) { r.Plant2 = " soma res" }, true},
		{"missing start", func(r *ReportConfig) { r.StartDate = "" }, true},
		{"missing end", func(r *ReportConfig) { r.EndDate = "" }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := base
			c.mutate(&r)
			err := r.Validate()
			if c.wantErr && err == nil {
				t.Error("expected error")
			}
			if !c.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
