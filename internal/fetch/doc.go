// Package fetch downloads parent FITS files and JSON index documents from
// the TNG project API.
//
// The client retries transport errors, timeouts, and 5xx responses with
// exponential backoff; 4xx responses fail the request immediately. File
// downloads stream into a ".part" sibling and rename into place on success,
// so a destination path either holds a complete payload or does not exist.
package fetch
