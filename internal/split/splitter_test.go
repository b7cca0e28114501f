package split_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"skysplit/internal/fits"
	"skysplit/internal/identity"
	"skysplit/internal/services"
	"skysplit/internal/split"
)

// fakeCodec serves a fixed extension layout from memory and records writes.
type fakeCodec struct {
	extensions []fits.Extension
	images     map[int]*fits.Image
	written    map[string]*fits.Image
	openErr    error
}

func newFakeCodec(names ...string) *fakeCodec {
	codec := &fakeCodec{
		images:  make(map[int]*fits.Image),
		written: make(map[string]*fits.Image),
	}
	for i, name := range names {
		codec.extensions = append(codec.extensions, fits.Extension{Index: i, Name: name})
		codec.images[i] = &fits.Image{
			Bitpix: -32,
			Axes:   []int{2, 2},
			Cards:  []fits.Card{{Name: "EXTNAME", Value: name}},
			Data:   []float32{1, 2, 3, float32(i)},
		}
	}
	return codec
}

func (c *fakeCodec) Extensions(path string) ([]fits.Extension, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	return c.extensions, nil
}

func (c *fakeCodec) ReadImage(path string, index int) (*fits.Image, error) {
	img, ok := c.images[index]
	if !ok {
		return nil, fmt.Errorf("no image at index %d", index)
	}
	return img, nil
}

func (c *fakeCodec) WriteImage(path string, img *fits.Image) error {
	c.written[filepath.Base(path)] = img
	return nil
}

func testIdentity() identity.Identity {
	return identity.Identity{Sim: 50, Snapshot: 72, Subhalo: 516101, Version: "v2"}
}

func TestSplitProducesOneFilePerFilter(t *testing.T) {
	codec := newFakeCodec("SUBARU_HSC.G", "SUBARU_HSC.R", "SUBARU_HSC.I")
	splitter := split.New(codec, nil)

	products, err := splitter.Split("parent.fits", t.TempDir(), testIdentity())
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	wantFilters := []string{"G", "R", "I"}
	for i, product := range products {
		if product.Filter != wantFilters[i] {
			t.Errorf("product %d filter = %q, want %q", i, product.Filter, wantFilters[i])
		}
		wantName := identity.SplitName(testIdentity(), wantFilters[i])
		if product.Filename != wantName {
			t.Errorf("product %d filename = %q, want %q", i, product.Filename, wantName)
		}
		if _, ok := codec.written[product.Filename]; !ok {
			t.Errorf("no file written for %q", product.Filename)
		}
	}
}

func TestSplitIgnoresUntaggedExtensions(t *testing.T) {
	codec := newFakeCodec("", "SUBARU_HSC.Z", "WFC3_IR.F160W")
	splitter := split.New(codec, nil)

	products, err := splitter.Split("parent.fits", t.TempDir(), testIdentity())
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(products) != 1 || products[0].Filter != "Z" {
		t.Fatalf("expected single Z product, got %+v", products)
	}
}

func TestSplitSkipsDuplicateFilters(t *testing.T) {
	codec := newFakeCodec("SUBARU_HSC.Y", "SUBARU_HSC.Y")
	splitter := split.New(codec, nil)

	products, err := splitter.Split("parent.fits", t.TempDir(), testIdentity())
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product for duplicate filter, got %d", len(products))
	}
}

func TestSplitNoFilterExtensionsFails(t *testing.T) {
	codec := newFakeCodec("PRIMARY", "SOMETHING_ELSE")
	splitter := split.New(codec, nil)

	_, err := splitter.Split("parent.fits", t.TempDir(), testIdentity())
	if err == nil {
		t.Fatal("expected error for parent without filter extensions")
	}
	if !errors.Is(err, services.ErrSplit) {
		t.Fatalf("expected split marker, got %v", err)
	}
	if services.Retryable(err) {
		t.Fatal("split failure should be final for the URL")
	}
}

func TestSplitUnreadableParentFails(t *testing.T) {
	codec := newFakeCodec("SUBARU_HSC.G")
	codec.openErr = errors.New("truncated file")
	splitter := split.New(codec, nil)

	_, err := splitter.Split("parent.fits", t.TempDir(), testIdentity())
	if err == nil {
		t.Fatal("expected error for unreadable parent")
	}
	if !errors.Is(err, services.ErrSplit) {
		t.Fatalf("expected split marker, got %v", err)
	}
}

func TestSplitIsIdempotent(t *testing.T) {
	codec := newFakeCodec("SUBARU_HSC.G", "SUBARU_HSC.R")
	splitter := split.New(codec, nil)
	outDir := t.TempDir()

	first, err := splitter.Split("parent.fits", outDir, testIdentity())
	if err != nil {
		t.Fatalf("first Split returned error: %v", err)
	}
	second, err := splitter.Split("parent.fits", outDir, testIdentity())
	if err != nil {
		t.Fatalf("second Split returned error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("product counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("product %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if len(codec.written) != 2 {
		t.Fatalf("expected 2 distinct written files, got %d", len(codec.written))
	}
}
