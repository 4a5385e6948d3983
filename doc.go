// Package robottools builds dynamic Robot Framework test libraries.
//
// A library is declared once as a Template: keywords registered through an
// option chain, context handlers that expose switch keywords, and session
// handlers that expose open/switch/close keywords. Each Template produces
// independent Library instances that implement the dynamic library API:
// keyword names, invocation, documentation and argument introspection.
//
// The pkg/remote package aggregates instances behind a dispatch bridge for
// remote execution, and pkg/adapters hosts HTTP and MCP transports on top
// of it.
package robottools
