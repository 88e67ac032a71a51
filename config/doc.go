// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Missing values fall back to the documented defaults, so a minimal file
// containing only source URLs is enough to run.
package config
