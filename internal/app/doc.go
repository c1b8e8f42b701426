// Package app wires the dashboard together: configuration, logging,
// OpenTelemetry, the dataset loader, the search-interest lookup, the
// services and the HTTP router.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, config.yaml and GHO_* variables
//  2. Initialize logging and observability
//  3. Create the dataset loader and, when enabled, the search-interest lookup
//  4. Initialize services with their dependencies
//  5. Set up HTTP handlers and middleware
//  6. Start the HTTP server and load the dataset eagerly
//
// A dataset that cannot be loaded at startup is logged and reported by the
// dashboard and the readiness probe; it does not stop the server.
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM: active requests are completed within the
// shutdown timeout and telemetry is flushed. The package never calls os.Exit.
package app
