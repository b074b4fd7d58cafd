// Package autoselect holds the shared domain types for the proxy
// auto-selector core: endpoint profiles, historical metrics, and probe
// results. Everything that probes, scores, or persists these types lives
// in a dedicated subpackage (probe, metrics, breaker, score, selector,
// store); this package only defines the shapes they share.
package autoselect
