// Package app contains the core application logic. It wires the schema
// loader, the backends, the validator and the health/metrics server into one
// run, decoupled from any specific entrypoint like a CLI.
package app
