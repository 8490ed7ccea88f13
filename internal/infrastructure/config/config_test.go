package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"MQTT_HOST":         "localhost",
		"MARIADB_HOST":      "localhost",
		"MARIADB_USER":      "dolphin",
		"MARIADB_PASSWORD":  "secret",
		"MARIADB_DATABASE":  "dolphin",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad_ValidWithoutYAML(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MQTT.Host != "localhost" {
		t.Errorf("MQTT.Host = %q, want %q", cfg.MQTT.Host, "localhost")
	}
	if cfg.Database.Database != "dolphin" {
		t.Errorf("Database.Database = %q, want %q", cfg.Database.Database, "dolphin")
	}
	if cfg.Scheduler.LivenessInterval.Minutes() != 5 {
		t.Errorf("Scheduler.LivenessInterval = %v, want 5m", cfg.Scheduler.LivenessInterval)
	}
}

func TestLoad_MissingRequiredEnv(t *testing.T) {
	_, err := Load("")
	if err == nil {
		t.Fatal("Load() expected error for missing required env vars, got nil")
	}
	var missingErr *MissingEnvError
	if !asMissingEnvError(err, &missingErr) {
		t.Fatalf("Load() error type = %T, want *MissingEnvError", err)
	}
	if len(missingErr.Keys) == 0 {
		t.Error("MissingEnvError.Keys is empty")
	}
}

func TestLoad_YAMLTuningOverride(t *testing.T) {
	setRequiredEnv(t)

	content := `
scheduler:
  liveness_interval: 2m
alerts:
  worker_pool_size: 3
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scheduler.LivenessInterval.String() != "2m0s" {
		t.Errorf("Scheduler.LivenessInterval = %v, want 2m0s", cfg.Scheduler.LivenessInterval)
	}
	if cfg.Alerts.WorkerPoolSize != 3 {
		t.Errorf("Alerts.WorkerPoolSize = %d, want 3", cfg.Alerts.WorkerPoolSize)
	}
}

func TestParseCommaSeparated(t *testing.T) {
	got := parseCommaSeparated(" AGL12 , DGL3,VGL9 ")
	want := []string{"AGL12", "DGL3", "VGL9"}
	if len(got) != len(want) {
		t.Fatalf("parseCommaSeparated() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseCommaSeparated()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func asMissingEnvError(err error, target **MissingEnvError) bool {
	me, ok := err.(*MissingEnvError)
	if ok {
		*target = me
	}
	return ok
}
