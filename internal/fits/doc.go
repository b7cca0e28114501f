// Package fits confines all astrogo/fitsio usage behind a small capability
// surface: enumerate image extensions, read one extension with its header,
// write single-image files, and read/write binary tables of tagged structs.
//
// Keeping the library behind the Codec interface lets the splitter and
// catalog be tested with in-memory fakes and keeps the FITS dependency
// swappable.
package fits
