package constants

// Query names used as metric and log labels
const (
	QuerySearch = "search"
	QueryHours  = "hours"
)

// Postal code outcomes
const (
	OutcomeImported      = "imported"
	OutcomeNoBusinesses  = "no_businesses"
	OutcomeBatchFailed   = "batch_failed"
	OutcomeRegionSkipped = "region_mismatch"
	OutcomeWritten       = "written"
)
