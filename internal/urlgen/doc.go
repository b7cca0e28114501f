// Package urlgen enumerates downloadable FITS image URLs from the
// tng-project files API and writes them as a plain-text list, one URL per
// line. The list feeds the batch pipeline.
package urlgen
