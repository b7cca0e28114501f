package identity_test

import (
	"errors"
	"testing"

	"skysplit/internal/identity"
)

func TestParseTaggedSegments(t *testing.T) {
	id, err := identity.Parse("https://www.tng-project.org/api/TNG50-1/snapshots/72/subhalos/516101/skirt/broadband_realistic_v2.fits")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := identity.Identity{Sim: 50, Snapshot: 72, Subhalo: 516101, Version: "v2"}
	if id != want {
		t.Fatalf("Parse = %+v, want %+v", id, want)
	}
}

func TestParsePositionalSegments(t *testing.T) {
	id, err := identity.Parse("https://www.tng-project.org/api/TNG100-1/files/99/0/broadband_hsc_realistic.fits")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := identity.Identity{Sim: 100, Snapshot: 99, Subhalo: 0, Version: identity.VersionUnknown}
	if id != want {
		t.Fatalf("Parse = %+v, want %+v", id, want)
	}
}

func TestParseDeterministic(t *testing.T) {
	const url = "https://www.tng-project.org/api/TNG50-1/snapshots/50/subhalos/7/skirt/img_v3.fits"
	first, err := identity.Parse(url)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	second, err := identity.Parse(url)
	if err != nil {
		t.Fatalf("Parse returned error on second call: %v", err)
	}
	if first != second {
		t.Fatalf("Parse not deterministic: %+v vs %+v", first, second)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		url   string
		field string
	}{
		{"no simulation token", "https://example.org/api/other/snapshots/1/subhalos/2", "simulation"},
		{"non-integer snapshot", "https://example.org/api/TNG50-1/snapshots/abc/subhalos/2", "snapshot"},
		{"missing subhalo", "https://example.org/api/TNG50-1/snapshots/1", "subhalo"},
		{"empty path", "https://example.org", "url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := identity.Parse(tc.url)
			if err == nil {
				t.Fatal("expected error")
			}
			var parseErr *identity.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error %T is not a ParseError", err)
			}
			if parseErr.Field != tc.field {
				t.Fatalf("ParseError.Field = %q, want %q", parseErr.Field, tc.field)
			}
		})
	}
}

func TestNames(t *testing.T) {
	id := identity.Identity{Sim: 50, Snapshot: 72, Subhalo: 516101, Version: "v2"}
	if got, want := identity.ParentName(id), "50_72_516101_v2_parent.fits"; got != want {
		t.Errorf("ParentName = %q, want %q", got, want)
	}
	if got, want := identity.SplitName(id, "G"), "50_72_516101_G_v2_hsc_realistic.fits"; got != want {
		t.Errorf("SplitName = %q, want %q", got, want)
	}
}

func TestParseSplitNameRoundTrip(t *testing.T) {
	id := identity.Identity{Sim: 50, Snapshot: 72, Subhalo: 516101, Version: "v2"}
	name := identity.SplitName(id, "R")
	got, ok := identity.ParseSplitName(name)
	if !ok {
		t.Fatalf("ParseSplitName rejected %q", name)
	}
	if got.Identity != id || got.Filter != "R" {
		t.Fatalf("ParseSplitName = %+v, want identity %+v filter R", got, id)
	}
}

func TestParseSplitNameUnknownVersion(t *testing.T) {
	got, ok := identity.ParseSplitName("100_99_0_I_v?_hsc_realistic.fits")
	if !ok {
		t.Fatal("ParseSplitName rejected unknown-version name")
	}
	if got.Version != identity.VersionUnknown || got.Filter != "I" {
		t.Fatalf("ParseSplitName = %+v", got)
	}
}

func TestParseSplitNameRejectsOtherFiles(t *testing.T) {
	for _, name := range []string{
		"50_72_516101_v2_parent.fits",
		"catalog.fits",
		"50_72_516101_G_v2_hsc_realistic.fits.part",
	} {
		if _, ok := identity.ParseSplitName(name); ok {
			t.Errorf("ParseSplitName accepted %q", name)
		}
	}
}

func TestObjectID(t *testing.T) {
	if got := identity.ObjectID(72, 516101); got != 72516101 {
		t.Fatalf("ObjectID = %d, want 72516101", got)
	}
	if got := identity.ObjectID(99, 0); got != 99000000 {
		t.Fatalf("ObjectID = %d, want 99000000", got)
	}
}

func TestDBID(t *testing.T) {
	if got := identity.DBID(72, 516101); got != "72_516101" {
		t.Fatalf("DBID = %q", got)
	}
}
