// Package catalog maintains the FITS binary-table catalog of split images.
//
// Rows carry the image identity columns plus merger-history labels joined by
// dbid. Writes are atomic (temp file + rename) and append mode dedups by
// filename with existing rows winning, so batches can be re-run safely. The
// catalog can also be rebuilt from a directory of split images alone, since
// every identity column is recoverable from the filename.
package catalog
