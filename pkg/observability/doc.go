/*
Package observability turns editor events into Prometheus metrics and log lines.

Both are delivered as domain.Hooks, so they can be combined with Chain and
handed to moedit.WithHooks.
*/
package observability
