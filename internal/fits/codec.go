package fits

import (
	"fmt"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
)

// structural header keys owned by the FITS writer; they are regenerated for
// the output geometry and must not be carried over from the source HDU.
var structuralKeys = map[string]struct{}{
	"SIMPLE":   {},
	"BITPIX":   {},
	"NAXIS":    {},
	"NAXIS1":   {},
	"NAXIS2":   {},
	"NAXIS3":   {},
	"NAXIS4":   {},
	"EXTEND":   {},
	"XTENSION": {},
	"PCOUNT":   {},
	"GCOUNT":   {},
	"END":      {},
}

// FileCodec implements Codec on top of astrogo/fitsio.
type FileCodec struct{}

// NewFileCodec returns the production FITS codec.
func NewFileCodec() *FileCodec {
	return &FileCodec{}
}

var _ Codec = (*FileCodec)(nil)

func (FileCodec) Extensions(path string) ([]Extension, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fits file: %w", err)
	}
	defer file.Close()

	f, err := fitsio.Open(file)
	if err != nil {
		return nil, fmt.Errorf("parse fits file: %w", err)
	}
	defer f.Close()

	hdus := f.HDUs()
	extensions := make([]Extension, 0, len(hdus))
	for i, hdu := range hdus {
		if _, ok := hdu.(fitsio.Image); !ok {
			continue
		}
		name := ""
		if card := hdu.Header().Get("EXTNAME"); card != nil {
			if s, ok := card.Value.(string); ok {
				name = strings.TrimSpace(s)
			}
		}
		extensions = append(extensions, Extension{Index: i, Name: name})
	}
	return extensions, nil
}

func (FileCodec) ReadImage(path string, index int) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fits file: %w", err)
	}
	defer file.Close()

	f, err := fitsio.Open(file)
	if err != nil {
		return nil, fmt.Errorf("parse fits file: %w", err)
	}
	defer f.Close()

	hdus := f.HDUs()
	if index < 0 || index >= len(hdus) {
		return nil, fmt.Errorf("hdu index %d out of range (%d hdus)", index, len(hdus))
	}
	img, ok := hdus[index].(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("hdu %d is not an image", index)
	}

	hdr := img.Header()
	axes := append([]int(nil), hdr.Axes()...)
	bitpix := hdr.Bitpix()

	data, err := readPixels(img, bitpix, axes)
	if err != nil {
		return nil, fmt.Errorf("read hdu %d pixels: %w", index, err)
	}

	cards := make([]Card, 0, len(hdr.Keys()))
	for _, key := range hdr.Keys() {
		if _, structural := structuralKeys[key]; structural {
			continue
		}
		if card := hdr.Get(key); card != nil {
			cards = append(cards, Card{Name: card.Name, Value: card.Value, Comment: card.Comment})
		}
	}

	return &Image{Bitpix: bitpix, Axes: axes, Cards: cards, Data: data}, nil
}

func (FileCodec) WriteImage(path string, img *Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fits file: %w", err)
	}
	defer file.Close()

	f, err := fitsio.Create(file)
	if err != nil {
		return fmt.Errorf("initialize fits file: %w", err)
	}
	defer f.Close()

	cards := make([]fitsio.Card, 0, len(img.Cards))
	for _, card := range img.Cards {
		if _, structural := structuralKeys[strings.ToUpper(card.Name)]; structural {
			continue
		}
		cards = append(cards, fitsio.Card{Name: card.Name, Value: card.Value, Comment: card.Comment})
	}

	hdr := fitsio.NewHeader(cards, fitsio.IMAGE_HDU, img.Bitpix, img.Axes)
	phdu, err := fitsio.NewPrimaryHDU(hdr)
	if err != nil {
		return fmt.Errorf("build primary hdu: %w", err)
	}

	if img.Data != nil {
		if err := writePixels(phdu, img.Data); err != nil {
			return fmt.Errorf("write pixels: %w", err)
		}
	}

	if err := f.Write(phdu); err != nil {
		return fmt.Errorf("write primary hdu: %w", err)
	}
	return nil
}

func readPixels(img fitsio.Image, bitpix int, axes []int) (any, error) {
	n := 1
	for _, axis := range axes {
		n *= axis
	}
	if len(axes) == 0 || n == 0 {
		return nil, nil
	}

	switch bitpix {
	case 8:
		data := make([]int8, n)
		if err := img.Read(&data); err != nil {
			return nil, err
		}
		return data, nil
	case 16:
		data := make([]int16, n)
		if err := img.Read(&data); err != nil {
			return nil, err
		}
		return data, nil
	case 32:
		data := make([]int32, n)
		if err := img.Read(&data); err != nil {
			return nil, err
		}
		return data, nil
	case 64:
		data := make([]int64, n)
		if err := img.Read(&data); err != nil {
			return nil, err
		}
		return data, nil
	case -32:
		data := make([]float32, n)
		if err := img.Read(&data); err != nil {
			return nil, err
		}
		return data, nil
	case -64:
		data := make([]float64, n)
		if err := img.Read(&data); err != nil {
			return nil, err
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported bitpix %d", bitpix)
	}
}

func writePixels(img fitsio.Image, data any) error {
	switch d := data.(type) {
	case []int8:
		return img.Write(&d)
	case []int16:
		return img.Write(&d)
	case []int32:
		return img.Write(&d)
	case []int64:
		return img.Write(&d)
	case []float32:
		return img.Write(&d)
	case []float64:
		return img.Write(&d)
	default:
		return fmt.Errorf("unsupported pixel slice type %T", data)
	}
}
