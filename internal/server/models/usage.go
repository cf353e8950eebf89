package models

// AppInfo is one tracked application's usage for a user. Rows are create-only;
// merge identity during sync is (Name, Limit), never Usage.
type AppInfo struct {
	UserID int64
	Name   string
	// Usage is elapsed seconds spent in the app.
	Usage int64
	// Limit is the configured cap in seconds.
	Limit int64
}

// DebugRecord is an opaque client-submitted diagnostic string. Create-only,
// merged by full equality.
type DebugRecord struct {
	UserID int64
	Stored string
}

// UsageSnapshot bundles everything the client holds locally for one user.
// A nil snapshot in a sync request means "nothing to merge, just fetch".
type UsageSnapshot struct {
	AppUsage []AppInfo
	Debug    []DebugRecord
}
