// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/precheckout/internal/adapters/config"
	_ "go.trai.ch/precheckout/internal/adapters/envresolver"
	_ "go.trai.ch/precheckout/internal/adapters/logger"
	_ "go.trai.ch/precheckout/internal/adapters/propcache"
	_ "go.trai.ch/precheckout/internal/adapters/telemetry"
	_ "go.trai.ch/precheckout/internal/adapters/tracker"
	// Register app nodes.
	_ "go.trai.ch/precheckout/internal/app"
)
