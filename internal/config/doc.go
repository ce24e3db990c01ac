// Package config provides centralized configuration management for the
// supplier order tooling. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ORDERCLI_* for namespacing:
//
//	ORDERCLI_SERVER_PORT=8080
//	ORDERCLI_SFTP_HOST=ftp.example.com
//	ORDERCLI_SFTP_REMOTE_PATH=/export-orders
//	ORDERCLI_STORE_PATH=data/suppliers.db
//	ORDERCLI_LOGGING_LEVEL=info
//
// # Paths
//
// The Paths type is the single source of truth for filesystem layout.
// All paths resolve relative to the executable directory, never the
// current working directory, so binaries behave identically regardless
// of where they are launched from.
package config
