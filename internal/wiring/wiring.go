// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/eject/internal/adapters/config"
	_ "go.trai.ch/eject/internal/adapters/fs"
	_ "go.trai.ch/eject/internal/adapters/logger"
	_ "go.trai.ch/eject/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/eject/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/eject/internal/app"
)
