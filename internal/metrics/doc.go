// Package metrics records run metrics in a private Prometheus registry and
// exports them in the node_exporter textfile format, so a batch invocation
// can be scraped after it exits.
package metrics
