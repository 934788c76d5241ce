// Package server wires termhost's components into one HTTP server.
//
// This package orchestrates:
//   - HTTP routing with Gin framework
//   - Middleware stack (recovery, request id, access log, metrics, CORS, rate limiting)
//   - Session manager, command runner, shell prober and host telemetry
//   - WebSocket output stream
//   - gzip compression for everything but the stream
//
// Server Lifecycle:
//  1. Load configuration from defaults, file and environment
//  2. Initialize logger (production or development)
//  3. Build the session manager and collaborators
//  4. Setup HTTP routes and middleware
//  5. Start HTTP server
//  6. On signal, stop accepting requests and close every session
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	srv, err := server.NewServer(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Run()
package server
