package fits

// Card is one header keyword/value pair carried between FITS files.
type Card struct {
	Name    string
	Value   any
	Comment string
}

// Extension describes one HDU within a multi-extension FITS file.
type Extension struct {
	Index int
	Name  string
}

// Image holds the header cards and pixel payload of a single image HDU.
// Data is a typed slice matching Bitpix: []int8, []int16, []int32, []int64,
// []float32, or []float64.
type Image struct {
	Bitpix int
	Axes   []int
	Cards  []Card
	Data   any
}

// Codec is the file-level FITS capability the splitter depends on. The
// production implementation wraps astrogo/fitsio; tests substitute fakes.
type Codec interface {
	// Extensions lists the image HDUs of the file at path along with their
	// EXTNAME values. HDUs without an EXTNAME are reported with an empty
	// name.
	Extensions(path string) ([]Extension, error)

	// ReadImage loads the image HDU at the given index.
	ReadImage(path string, index int) (*Image, error)

	// WriteImage writes img as the primary HDU of a new single-image FITS
	// file at path, replacing any existing file.
	WriteImage(path string, img *Image) error
}
