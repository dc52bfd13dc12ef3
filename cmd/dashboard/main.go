// @title Latency Dashboard API
// @version 1.0
// @description Server response time dashboard: filtered views, status classification, charts and CSV export.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
package main

import (
	"fmt"
	"os"

	_ "time/tzdata"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
