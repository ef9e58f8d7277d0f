// Package operations runs batches of application workbooks.
//
// BatchRunner fans documents out over an errgroup limited to the configured
// worker count. Every document writes its own result slot, so records come
// back in input order, and every document yields exactly one record: load
// failures, panics and cancellation all become flagged records.
//
// Processor is the directory workflow behind the process command. It
// discovers workbooks, runs the batch, writes the CSV report and the JSON
// flag summary.
package operations
