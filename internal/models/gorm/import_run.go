package gorm

import "time"

// ImportRun records the outcome of one importer invocation
type ImportRun struct {
	ID                string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Region            string    `gorm:"column:region;type:varchar(32);not null;index"`
	StartedAt         time.Time `gorm:"column:started_at;not null"`
	FinishedAt        time.Time `gorm:"column:finished_at;not null"`
	PostalCodes       int       `gorm:"column:postal_codes"`
	PostalCodesEmpty  int       `gorm:"column:postal_codes_empty"`
	BusinessesWritten int       `gorm:"column:businesses_written"`
	BusinessesSkipped int       `gorm:"column:businesses_skipped"`
	HoursWritten      int       `gorm:"column:hours_written"`
	HoursMissing      int       `gorm:"column:hours_missing"`
	BatchesFailed     int       `gorm:"column:batches_failed"`
}

// TableName specifies the table name for GORM
func (ImportRun) TableName() string {
	return "import_run"
}
