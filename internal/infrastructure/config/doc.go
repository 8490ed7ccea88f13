// Package config handles loading and validating Dolphin Core configuration.
//
// This package manages:
//   - Required settings loaded from the environment, with fail-fast validation
//   - Optional tuning knobs layered from a YAML file (never required)
//   - Default value handling
//
// Security Considerations:
//   - Broker, database, and SMS credentials are read from the environment only —
//     they are never accepted from the YAML file so they cannot accidentally be
//     committed alongside the binary's config.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    fmt.Println(err)
//	    os.Exit(1)
//	}
package config
