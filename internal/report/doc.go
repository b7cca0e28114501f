// Package report writes the per-batch failure report: one tab-separated
// "url error" line per failed URL. The report doubles as an input URL list,
// so a failed batch can be re-submitted directly.
package report
