// Package config loads, parses and validates application settings from
// environment variables, an optional .env file and an optional config.yaml.
package config
