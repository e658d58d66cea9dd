// Package main provides the geomagnetic forecast API HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/stormlab/geomag-api/internal/adapter/store/csv"
	"github.com/stormlab/geomag-api/internal/adapter/store/netcdf"
	httpHandler "github.com/stormlab/geomag-api/internal/http"
	"github.com/stormlab/geomag-api/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("geomag-api version %s\n", version)
		return
	}

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	runPath := getEnv("RUN_PATH", "./data/run.nc")
	scalersPath := getEnv("SCALERS_CSV", "")

	log.Printf("Starting geomag forecast API server...")
	log.Printf("Port: %s", port)
	log.Printf("Run file: %s", runPath)

	// Load the forecast run.
	run, err := netcdf.Load(runPath)
	if err != nil {
		log.Fatalf("Failed to load run file: %v", err)
	}
	log.Printf("Run loaded: nmax=%d, %d timesteps, %d stations", run.Nmax, len(run.Times), run.Stations())

	// Optionally override the embedded scalers from a CSV file.
	scalers := run.Scalers
	if scalersPath != "" {
		log.Printf("Loading scaler overrides from %s", scalersPath)
		scalers, err = csv.LoadScalers(scalersPath)
		if err != nil {
			log.Fatalf("Failed to load scalers: %v", err)
		}
	}

	// Initialize use case.
	forecastUC, err := usecase.NewForecastUseCase(run.Nmax, run.Times, run.Coefficients, scalers)
	if err != nil {
		log.Fatalf("Failed to initialize forecast use case: %v", err)
	}

	// Setup router.
	router := httpHandler.SetupRouter(forecastUC)

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/components")
	log.Printf("  - GET /v1/forecast/grid")
	log.Printf("  - GET /v1/forecast/point")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Geomag Forecast API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  geomag-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  RUN_PATH                Path to the run NetCDF file (default: ./data/run.nc)")
	fmt.Println("  SCALERS_CSV             Path to a scaler override CSV file (optional)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  geomag-api")
	fmt.Println()
	fmt.Println("  # Start server on custom port with a specific run")
	fmt.Println("  PORT=3000 RUN_PATH=/data/storm-2024-05.nc geomag-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health              Health check")
	fmt.Println("  GET /v1/components      List served components and time range")
	fmt.Println("  GET /v1/forecast/grid   Synthesize a field forecast on a polar-cap grid")
	fmt.Println("  GET /v1/forecast/point  Interpolate a field forecast at one point")
	fmt.Println()
}
