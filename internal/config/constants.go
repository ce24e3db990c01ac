package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "Order CLI"
	AppVersion = "1.2.0"

	// Remote listing
	DefaultArchiveFolder = "old"

	// Network timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultSFTPTimeout  = 15 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// Operation timeouts
	DefaultOperationTimeout = 10 * time.Minute
	DefaultDownloadTimeout  = 2 * time.Minute

	// Staged downloads older than this are pruned on refresh
	DefaultDownloadRetention = 7 * 24 * time.Hour

	// Rate limiting
	DefaultRateLimit = 50
	DefaultBurstSize = 25
)
