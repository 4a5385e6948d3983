/*
Package observability provides Prometheus instrumentation for remote
keyword execution.

The bridge records per-keyword run counts and latencies plus import
attempt outcomes; the HTTP adapter exposes them on /metrics.
*/
package observability
