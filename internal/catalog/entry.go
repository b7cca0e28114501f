package catalog

import (
	"skysplit/internal/identity"
	"skysplit/internal/mergers"
)

// TableName is the EXTNAME of the catalog binary table.
const TableName = "CATALOG"

// Entry is one catalog row describing a single split image. Column names and
// order follow the downstream training-set convention: identifiers first,
// then the merger-history labels.
type Entry struct {
	ObjectID int64  `fits:"object_id"`
	Filename string `fits:"filename"`
	Filter   string `fits:"filter"`
	Sim      int32  `fits:"sim"`
	Snapshot int32  `fits:"snapshot"`
	Subhalo  int64  `fits:"subhalo"`
	DBID     string `fits:"dbid"`

	HasMergerRow bool `fits:"has_merger_row"`

	HasMajorPast1Gyr   bool `fits:"has_major_past_1gyr"`
	HasMajorFuture1Gyr bool `fits:"has_major_future_1gyr"`
	HasMinorPast1Gyr   bool `fits:"has_minor_past_1gyr"`
	HasMinorFuture1Gyr bool `fits:"has_minor_future_1gyr"`
	HasMiniPast1Gyr    bool `fits:"has_mini_past_1gyr"`
	HasMiniFuture1Gyr  bool `fits:"has_mini_future_1gyr"`

	MajorCountSince1Gyr int32 `fits:"major_count_since_1gyr"`
	MajorCountUntil1Gyr int32 `fits:"major_count_until_1gyr"`
	MinorCountSince1Gyr int32 `fits:"minor_count_since_1gyr"`
	MinorCountUntil1Gyr int32 `fits:"minor_count_until_1gyr"`
	MiniCountSince1Gyr  int32 `fits:"mini_count_since_1gyr"`
	MiniCountUntil1Gyr  int32 `fits:"mini_count_until_1gyr"`

	MajorTimeSinceMerger float64 `fits:"major_time_since_merger"`
	MajorTimeUntilMerger float64 `fits:"major_time_until_merger"`
	MinorTimeSinceMerger float64 `fits:"minor_time_since_merger"`
	MinorTimeUntilMerger float64 `fits:"minor_time_until_merger"`
	MiniTimeSinceMerger  float64 `fits:"mini_time_since_merger"`
	MiniTimeUntilMerger  float64 `fits:"mini_time_until_merger"`
}

// NewEntry builds the catalog row for one split image, joining merger-history
// labels by dbid when the history carries a row for this subhalo.
func NewEntry(id identity.Identity, filter, filename string, history *mergers.History) Entry {
	dbid := identity.DBID(id.Snapshot, id.Subhalo)
	labels, hasRow := history.Lookup(dbid)

	return Entry{
		ObjectID: identity.ObjectID(id.Snapshot, id.Subhalo),
		Filename: filename,
		Filter:   filter,
		Sim:      int32(id.Sim),
		Snapshot: int32(id.Snapshot),
		Subhalo:  int64(id.Subhalo),
		DBID:     dbid,

		HasMergerRow: hasRow,

		HasMajorPast1Gyr:   labels.HasMajorPast1Gyr,
		HasMajorFuture1Gyr: labels.HasMajorFuture1Gyr,
		HasMinorPast1Gyr:   labels.HasMinorPast1Gyr,
		HasMinorFuture1Gyr: labels.HasMinorFuture1Gyr,
		HasMiniPast1Gyr:    labels.HasMiniPast1Gyr,
		HasMiniFuture1Gyr:  labels.HasMiniFuture1Gyr,

		MajorCountSince1Gyr: labels.MajorCountSince1Gyr,
		MajorCountUntil1Gyr: labels.MajorCountUntil1Gyr,
		MinorCountSince1Gyr: labels.MinorCountSince1Gyr,
		MinorCountUntil1Gyr: labels.MinorCountUntil1Gyr,
		MiniCountSince1Gyr:  labels.MiniCountSince1Gyr,
		MiniCountUntil1Gyr:  labels.MiniCountUntil1Gyr,

		MajorTimeSinceMerger: labels.MajorTimeSinceMerger,
		MajorTimeUntilMerger: labels.MajorTimeUntilMerger,
		MinorTimeSinceMerger: labels.MinorTimeSinceMerger,
		MinorTimeUntilMerger: labels.MinorTimeUntilMerger,
		MiniTimeSinceMerger:  labels.MiniTimeSinceMerger,
		MiniTimeUntilMerger:  labels.MiniTimeUntilMerger,
	}
}
