package identity

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// VersionUnknown is substituted when no version token can be parsed.
	VersionUnknown = "v?"

	// SplitSuffix terminates every split image filename.
	SplitSuffix = "_hsc_realistic.fits"

	// SplitGlob matches split image filenames in an output directory.
	SplitGlob = "*" + SplitSuffix
)

var (
	simPattern     = regexp.MustCompile(`^TNG(\d+)-\d+$`)
	versionPattern = regexp.MustCompile(`(v\d+)`)
	splitPattern   = regexp.MustCompile(`^(\d+)_(\d+)_(\d+)_([A-Za-z]+)_(v\d+|v\?)_hsc_realistic\.fits$`)
)

// Identity is the tuple that names one subhalo image within a simulation run.
type Identity struct {
	Sim      int
	Snapshot int
	Subhalo  int
	Version  string
}

// SplitIdentity extends Identity with the photometric filter of one split
// output. It is recovered from split filenames during catalog rebuilds.
type SplitIdentity struct {
	Identity
	Filter string
}

// ParseError reports which identity field could not be extracted.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s from %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("parse %s from %q: field not found", e.Field, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse extracts an Identity from a TNG API image URL.
//
// The recognized layout places a TNG<sim>-<run> token in the path followed by
// snapshot and subhalo path segments, either tagged ("snapshots/72",
// "subhalos/0") or positional two and four segments after the simulation
// token, matching the files API. Snapshot and subhalo must be integers;
// version degrades to VersionUnknown when absent from the trailing filename.
func Parse(rawURL string) (Identity, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Identity{}, &ParseError{Field: "url", Input: rawURL, Err: err}
	}

	segments := splitPath(u.Path)
	if len(segments) == 0 {
		return Identity{}, &ParseError{Field: "url", Input: rawURL, Err: fmt.Errorf("empty path")}
	}

	simIdx := -1
	sim := 0
	for i, seg := range segments {
		if m := simPattern.FindStringSubmatch(seg); m != nil {
			sim, _ = strconv.Atoi(m[1])
			simIdx = i
			break
		}
	}
	if simIdx < 0 {
		return Identity{}, &ParseError{Field: "simulation", Input: rawURL}
	}

	snapshot, err := segmentInt(segments, simIdx, "snapshots", 2)
	if err != nil {
		return Identity{}, &ParseError{Field: "snapshot", Input: rawURL, Err: err}
	}
	subhalo, err := segmentInt(segments, simIdx, "subhalos", 4)
	if err != nil {
		return Identity{}, &ParseError{Field: "subhalo", Input: rawURL, Err: err}
	}

	version := VersionUnknown
	if m := versionPattern.FindStringSubmatch(segments[len(segments)-1]); m != nil {
		version = m[1]
	}

	return Identity{Sim: sim, Snapshot: snapshot, Subhalo: subhalo, Version: version}, nil
}

// segmentInt resolves an integer path segment either by a marker segment
// ("snapshots"/"subhalos" followed by the value) or by position relative to
// the simulation token.
func segmentInt(segments []string, simIdx int, marker string, offset int) (int, error) {
	for i, seg := range segments {
		if strings.EqualFold(seg, marker) && i+1 < len(segments) {
			return parseIntSegment(segments[i+1])
		}
	}
	pos := simIdx + offset
	if pos >= len(segments) {
		return 0, fmt.Errorf("no %s segment", marker)
	}
	return parseIntSegment(segments[pos])
}

func parseIntSegment(seg string) (int, error) {
	value, err := strconv.Atoi(seg)
	if err != nil {
		return 0, fmt.Errorf("segment %q is not an integer", seg)
	}
	if value < 0 {
		return 0, fmt.Errorf("segment %q is negative", seg)
	}
	return value, nil
}

func splitPath(path string) []string {
	raw := strings.Split(strings.Trim(path, "/"), "/")
	segments := raw[:0]
	for _, seg := range raw {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// ParentName returns the deterministic filename for the downloaded
// multi-extension parent file.
func ParentName(id Identity) string {
	return fmt.Sprintf("%d_%d_%d_%s_parent.fits", id.Sim, id.Snapshot, id.Subhalo, id.Version)
}

// SplitName returns the deterministic filename for one per-filter split
// output.
func SplitName(id Identity, filter string) string {
	return fmt.Sprintf("%d_%d_%d_%s_%s%s", id.Sim, id.Snapshot, id.Subhalo, filter, id.Version, SplitSuffix)
}

// ParseSplitName recovers the identity and filter encoded in a split
// filename. It returns false when the name does not follow the split naming
// scheme.
func ParseSplitName(filename string) (SplitIdentity, bool) {
	m := splitPattern.FindStringSubmatch(filename)
	if m == nil {
		return SplitIdentity{}, false
	}
	sim, _ := strconv.Atoi(m[1])
	snapshot, _ := strconv.Atoi(m[2])
	subhalo, _ := strconv.Atoi(m[3])
	return SplitIdentity{
		Identity: Identity{Sim: sim, Snapshot: snapshot, Subhalo: subhalo, Version: m[5]},
		Filter:   m[4],
	}, true
}

// ObjectID computes the catalog object identifier for a snapshot/subhalo
// pair: snapshot*1_000_000 + subhalo.
func ObjectID(snapshot, subhalo int) int64 {
	return int64(snapshot)*1_000_000 + int64(subhalo)
}

// DBID formats the merger-history join key for a snapshot/subhalo pair.
func DBID(snapshot, subhalo int) string {
	return fmt.Sprintf("%d_%d", snapshot, subhalo)
}
