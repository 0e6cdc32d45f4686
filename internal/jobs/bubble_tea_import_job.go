package jobs

import (
	"context"
	"fmt"
	"time"

	"boba-atlas/importer/internal/constants"
	"boba-atlas/importer/internal/db/repositories"
	"boba-atlas/importer/internal/metrics"
	"boba-atlas/importer/internal/models/entities"
	gormModels "boba-atlas/importer/internal/models/gorm"
	"boba-atlas/importer/internal/providers"
	"boba-atlas/importer/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocationSource lists the postal codes a run iterates over
type LocationSource interface {
	ListReferenceLocations(ctx context.Context, region string) ([]entities.ReferenceLocation, error)
}

// BatchWriter commits one postal code's rows atomically
type BatchWriter interface {
	SaveBatch(ctx context.Context, batch *repositories.Batch) error
}

// RunRecorder stores the outcome of a run and reads back the previous one
type RunRecorder interface {
	RecordRun(ctx context.Context, run *gormModels.ImportRun) error
	GetLastRun(ctx context.Context, region string) (*gormModels.ImportRun, error)
}

// ImportOptions are the per-run search parameters
type ImportOptions struct {
	RunID       string // Generated when empty
	Region      string
	Category    string
	Limit       int
	SortBy      string
	ImportHours bool
}

// RunSummary counts what a run did
type RunSummary struct {
	RunID             string
	PreviousRunID     string // Empty when the region was never imported
	Region            string
	StartedAt         time.Time
	FinishedAt        time.Time
	PostalCodes       int
	PostalCodesEmpty  int
	BusinessesWritten int
	BusinessesSkipped int
	HoursWritten      int
	HoursMissing      int
	BatchesFailed     int
}

// PostalCodeResult counts what one postal code pass did
type PostalCodeResult struct {
	NoBusinesses      bool
	BusinessesWritten int
	BusinessesSkipped int
	HoursWritten      int
	HoursMissing      int
}

// BubbleTeaImportJob imports bubble tea shops around every reference postal code of a region
type BubbleTeaImportJob struct {
	provider  providers.BusinessProvider
	locations LocationSource
	writer    BatchWriter
	runs      RunRecorder
	metrics   *metrics.ImportMetrics
	opts      ImportOptions
	logger    *zap.SugaredLogger
}

// NewBubbleTeaImportJob creates a new import job instance. runs may be nil.
func NewBubbleTeaImportJob(
	provider providers.BusinessProvider,
	locations LocationSource,
	writer BatchWriter,
	runs RunRecorder,
	importMetrics *metrics.ImportMetrics,
	opts ImportOptions,
	logger *zap.SugaredLogger,
) *BubbleTeaImportJob {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	return &BubbleTeaImportJob{
		provider:  provider,
		locations: locations,
		writer:    writer,
		runs:      runs,
		metrics:   importMetrics,
		opts:      opts,
		logger:    logger,
	}
}

// Run attempts every postal code of the configured region once.
// Per postal code failures are logged and counted, never returned.
func (j *BubbleTeaImportJob) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     j.opts.RunID,
		Region:    j.opts.Region,
		StartedAt: time.Now(),
	}

	locations, err := j.locations.ListReferenceLocations(ctx, j.opts.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to list postal codes for region %s: %w", j.opts.Region, err)
	}

	summary.PreviousRunID = j.logPreviousRun(ctx)

	j.logger.Infow("Starting bubble tea import",
		"provider", j.provider.GetProviderType(),
		"postal_codes", len(locations),
		"import_hours", j.opts.ImportHours,
		"limit", j.opts.Limit,
		"sort_by", j.opts.SortBy,
	)

	for _, location := range locations {
		if err := ctx.Err(); err != nil {
			j.logger.Warnw("Import interrupted", "error", err)
			return summary, err
		}

		j.logger.Infow("Working on importing bubble tea locations around postal code",
			"zip_code", location.Zip,
			"city", location.City.String,
		)

		summary.PostalCodes++
		result, err := j.ImportPostalCode(ctx, location.Zip)
		if result != nil {
			if result.NoBusinesses {
				summary.PostalCodesEmpty++
			}
			summary.BusinessesSkipped += result.BusinessesSkipped
			summary.HoursMissing += result.HoursMissing
		}
		if err != nil {
			j.logger.Errorw("Batch rolled back", "zip_code", location.Zip, "error", err)
			summary.BatchesFailed++
			// Continue with other postal codes even if one fails
			continue
		}
		summary.BusinessesWritten += result.BusinessesWritten
		summary.HoursWritten += result.HoursWritten
	}

	summary.FinishedAt = time.Now()
	j.logger.Infow("Completed bubble tea import",
		"duration", summary.FinishedAt.Sub(summary.StartedAt).Truncate(time.Millisecond).String(),
		"postal_codes", summary.PostalCodes,
		"postal_codes_empty", summary.PostalCodesEmpty,
		"businesses_written", summary.BusinessesWritten,
		"businesses_skipped", summary.BusinessesSkipped,
		"hours_written", summary.HoursWritten,
		"hours_missing", summary.HoursMissing,
		"batches_failed", summary.BatchesFailed,
	)

	j.recordRun(ctx, summary)

	return summary, nil
}

// ImportPostalCode searches around one postal code and commits the resulting batch
// (exported for manual triggering). A failed search is reported as NoBusinesses, not as an error;
// the error return is reserved for a batch the store rejected.
func (j *BubbleTeaImportJob) ImportPostalCode(ctx context.Context, zipCode string) (*PostalCodeResult, error) {
	result := &PostalCodeResult{}

	started := time.Now()
	businesses, err := j.provider.SearchBusinesses(ctx, providers.SearchParams{
		Category:   j.opts.Category,
		Region:     j.opts.Region,
		PostalCode: zipCode,
		Limit:      j.opts.Limit,
		SortBy:     j.opts.SortBy,
	})
	j.metrics.ObserveAPICall(constants.QuerySearch, started, providers.ErrorCode(err))

	if err != nil || len(businesses) == 0 {
		fields := []interface{}{"zip_code", zipCode}
		if err != nil {
			fields = append(fields, "error_code", providers.ErrorCode(err), "error", err.Error())
		}
		j.logger.Infow("No businesses found", fields...)
		j.metrics.PostalCodesTotal.WithLabelValues(constants.OutcomeNoBusinesses).Inc()
		result.NoBusinesses = true
		return result, nil
	}

	j.logger.Infow("Found businesses", "count", len(businesses), "zip_code", zipCode)

	batch := &repositories.Batch{}
	for _, business := range businesses {
		row, ok := services.MapBusiness(business, j.opts.Region)
		if !ok {
			result.BusinessesSkipped++
			j.metrics.BusinessesTotal.WithLabelValues(constants.OutcomeRegionSkipped).Inc()
			continue
		}
		batch.Businesses = append(batch.Businesses, *row)

		if !j.opts.ImportHours {
			continue
		}

		started := time.Now()
		open, err := j.provider.FetchHours(ctx, row.ID)
		j.metrics.ObserveAPICall(constants.QueryHours, started, providers.ErrorCode(err))
		if err != nil {
			// The business row is still written without hours
			j.logger.Warnw("No hours found",
				"business_id", row.ID,
				"error_code", providers.ErrorCode(err),
				"error", err.Error(),
			)
			result.HoursMissing++
			continue
		}
		batch.Hours = append(batch.Hours, services.MapHours(row.ID, open)...)
	}

	if len(batch.Businesses) == 0 {
		j.metrics.PostalCodesTotal.WithLabelValues(constants.OutcomeImported).Inc()
		return result, nil
	}

	if err := j.writer.SaveBatch(ctx, batch); err != nil {
		j.metrics.PostalCodesTotal.WithLabelValues(constants.OutcomeBatchFailed).Inc()
		return result, fmt.Errorf("failed to save batch for postal code %s: %w", zipCode, err)
	}

	result.BusinessesWritten = len(batch.Businesses)
	result.HoursWritten = len(batch.Hours)
	j.metrics.PostalCodesTotal.WithLabelValues(constants.OutcomeImported).Inc()
	j.metrics.BusinessesTotal.WithLabelValues(constants.OutcomeWritten).Add(float64(result.BusinessesWritten))
	j.metrics.HoursRowsTotal.Add(float64(result.HoursWritten))

	return result, nil
}

// recordRun stores the summary; a failure here does not fail the run
// logPreviousRun reports the last recorded run of the region and returns its id
func (j *BubbleTeaImportJob) logPreviousRun(ctx context.Context) string {
	if j.runs == nil {
		return ""
	}

	last, err := j.runs.GetLastRun(ctx, j.opts.Region)
	if err != nil {
		j.logger.Warnw("Failed to read previous import run", "error", err)
		return ""
	}
	if last == nil {
		j.logger.Infow("No previous import run")
		return ""
	}

	j.logger.Infow("Previous import run",
		"previous_run_id", last.ID,
		"finished_at", last.FinishedAt.Format(time.RFC3339),
		"businesses_written", last.BusinessesWritten,
		"batches_failed", last.BatchesFailed,
	)
	return last.ID
}

func (j *BubbleTeaImportJob) recordRun(ctx context.Context, summary *RunSummary) {
	if j.runs == nil {
		return
	}

	err := j.runs.RecordRun(ctx, &gormModels.ImportRun{
		ID:                summary.RunID,
		Region:            summary.Region,
		StartedAt:         summary.StartedAt,
		FinishedAt:        summary.FinishedAt,
		PostalCodes:       summary.PostalCodes,
		PostalCodesEmpty:  summary.PostalCodesEmpty,
		BusinessesWritten: summary.BusinessesWritten,
		BusinessesSkipped: summary.BusinessesSkipped,
		HoursWritten:      summary.HoursWritten,
		HoursMissing:      summary.HoursMissing,
		BatchesFailed:     summary.BatchesFailed,
	})
	if err != nil {
		j.logger.Warnw("Failed to record import run", "run_id", summary.RunID, "error", err)
	}
}
