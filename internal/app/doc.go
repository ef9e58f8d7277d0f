// Package app wires configuration, logging, telemetry and the extraction
// pipeline together.
//
// An Application is built once from a loaded config and then drives one of
// the entry points:
//
//	Process  extract a directory of workbooks into a CSV report
//	Fetch    download the workbooks linked from an application index
//	Serve    run the HTTP extraction API until the context is cancelled
//
// Initialization errors are returned to the caller; the package never
// calls os.Exit. Close flushes telemetry and the log file.
package app
