/*
Package remote aggregates library instances behind a dispatch bridge for
remote keyword execution.

The bridge answers the four dynamic-API calls across all wrapped
instances, converts every keyword failure into a structured PASS/FAIL
result, publishes per-keyword auxiliary introspection endpoints, and
gates runtime library imports behind an allow-list. Transports live in
pkg/adapters.
*/
package remote
