// Package split turns one downloaded multi-extension parent image into one
// single-image FITS file per photometric filter, preserving each extension's
// header cards. Outputs are named deterministically from the parent identity
// so re-running a batch overwrites rather than duplicates.
package split
