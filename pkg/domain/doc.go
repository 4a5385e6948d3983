/*
Package domain holds the shared value types and sentinel errors of the
dynamic keyword library core.

It intentionally has no dependencies besides the standard library so that
every other package (tables, templates, handlers, remote adapters) can share
the same vocabulary without import cycles.
*/
package domain
