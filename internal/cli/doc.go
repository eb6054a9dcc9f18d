// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes and the
// .env file. It translates flags and PSCHEMA_* variables into the
// application's configuration; flags win over the environment.
package cli
