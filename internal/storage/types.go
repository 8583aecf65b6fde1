package storage

// Entry is one stored observation: the OCR text of a screenshot plus the
// foreground application and window title at capture time. Entries are
// written once by the capture loop and never updated.
type Entry struct {
	ID        int64
	App       string
	Title     string
	Text      string
	Timestamp int64 // unix seconds, unique across all entries
	Embedding []float32
}

// NewEntry carries the fields of an entry about to be inserted. The store
// assigns the ID.
type NewEntry struct {
	App       string
	Title     string
	Text      string
	Timestamp int64
	Embedding []float32
}

// PageQuery defines filters for paginated entry listing. Zero values mean
// "no filter". Filters combine with AND.
type PageQuery struct {
	Page      int    // 1-indexed
	Limit     int    // clamped to MaxPageLimit
	StartTime int64  // inclusive lower timestamp bound
	EndTime   int64  // inclusive upper timestamp bound
	App       string // substring match on the app name
}

// AppCount pairs an application name with its entry count.
type AppCount struct {
	App   string
	Count int64
}

// HourCount is one bucket of the activity histogram, keyed by local hour
// of day (0-23).
type HourCount struct {
	Hour  int
	Count int64
}

// Stats holds aggregate statistics about the recall database.
type Stats struct {
	TotalEntries     int64
	FirstTimestamp   int64
	LastTimestamp    int64
	TopApps          []AppCount
	ActivityByHour   []HourCount
	ScreenshotsBytes int64
}
