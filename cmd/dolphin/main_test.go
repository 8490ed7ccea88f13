package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/wacker23/dolphin-core/internal/infrastructure/config"
)

// clearRequiredEnv unsets every variable config.Load treats as required,
// restoring the original values on test cleanup.
func clearRequiredEnv(t *testing.T) {
	t.Helper()
	keys := []string{"MQTT_HOST", "MARIADB_HOST", "MARIADB_USER", "MARIADB_PASSWORD", "MARIADB_DATABASE", "DOLPHIN_CONFIG"}
	for _, k := range keys {
		original, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, original)
			}
		})
	}
}

func TestRun_MissingRequiredEnv(t *testing.T) {
	clearRequiredEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail when required environment variables are unset")
	}

	var missing *config.MissingEnvError
	if !isMissingEnvError(err, &missing) {
		t.Errorf("run() error = %v, want *config.MissingEnvError", err)
	}
}

func isMissingEnvError(err error, target **config.MissingEnvError) bool {
	m, ok := err.(*config.MissingEnvError)
	if ok {
		*target = m
	}
	return ok
}

// TestRun_RequiresLiveBroker documents that a full startup exercises a
// real MQTT broker and MariaDB instance; it is not exercised here.
func TestRun_RequiresLiveBroker(t *testing.T) {
	t.Skip("run() connects to a live MQTT broker and MariaDB instance - not exercised in unit tests")
}
