/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the termhost
backend, tracking HTTP requests, terminal sessions, output relay throughput,
one-shot commands and WebSocket subscribers.

# Features

- HTTP request metrics (latency, throughput, size)
- Session lifecycle metrics (open, created, closed, failures)
- Relay metrics (bytes read, events dropped for slow subscribers)
- One-shot command metrics (outcome per shell family, duration)
- WebSocket connection metrics
- Uptime

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Time a command
	timer := monitoring.NewCommandTimer(metrics, "bash")
	// ... run ...
	timer.Stop("ok")

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
