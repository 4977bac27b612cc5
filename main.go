package main

import (
	"blink-scheduler/core/logger"
	"blink-scheduler/core/server"
)

// @title Blink Scheduling API
// @version 1.0
// @description Calendar reconciliation, conflict detection and workload analytics for Blink providers

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
