/*
Package observability turns synchronization lifecycle hooks into Prometheus metrics.

Metrics are registered on a caller-supplied registerer so several synchronizers (or
tests) can coexist in one process. Handler exposes them in the Prometheus text format.
*/
package observability
