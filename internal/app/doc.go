// Package app wires one command invocation together.
//
// # Initialization Flow
//
//  1. The command loads configuration and applies its flag overrides
//  2. NewApplication resolves and creates the output directories,
//     initializes logging inside the logs directory, and starts OpenTelemetry
//  3. RunProcess or RunReport builds the step registry and runs it
//  4. A run manifest is written under the reports directory
//  5. Close writes the Prometheus textfile and shuts telemetry down
//
// The command closes the log file after its final log line.
//
// Commands exit non-zero when the pipeline returns an error.
package app
