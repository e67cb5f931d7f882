// Package app provides application initialization and lifecycle management
// for the ghost-payroll service.
//
// # Initialization Flow
//
//	1. Load configuration from the YAML file, .env and the environment
//	2. Initialize logging and OpenTelemetry
//	3. Build the reasoning adapter for the configured provider
//	4. Start the websocket event hub
//	5. Create the batch and result stores and the services
//	6. Set up middleware, handlers and the HTTP server
//
// NewServices is exported so the analyze CLI runs exactly the pipeline the
// server runs.
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM. Stop closes the event hub after the
// listener has drained. The listener and the shutdown watcher
// share an errgroup, so a listener failure also triggers shutdown. Errors
// are returned to main; the package never calls os.Exit.
package app
