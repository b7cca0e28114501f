// Package queue tracks per-URL batch progress in a SQLite ledger. Each URL
// moves through pending, fetching, fetched, splitting, and finally cataloged
// or failed. The ledger survives restarts, so interrupted runs resume from
// where they stopped and failed URLs can be retried without refetching work
// that already finished.
package queue
