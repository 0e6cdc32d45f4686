package jobs

import (
	"context"
	"errors"
	"testing"

	"boba-atlas/importer/internal/constants"
	"boba-atlas/importer/internal/db/repositories"
	"boba-atlas/importer/internal/metrics"
	"boba-atlas/importer/internal/models/dtos"
	gormModels "boba-atlas/importer/internal/models/gorm"
	"boba-atlas/importer/internal/providers"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Mock BusinessProvider
type mockProvider struct {
	searchFunc func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error)
	hoursFunc  func(ctx context.Context, businessID string) ([]dtos.OpenInterval, error)

	searched   []string
	hoursCalls []string
}

func (m *mockProvider) SearchBusinesses(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
	m.searched = append(m.searched, params.PostalCode)
	return m.searchFunc(ctx, params)
}

func (m *mockProvider) FetchHours(ctx context.Context, businessID string) ([]dtos.OpenInterval, error) {
	m.hoursCalls = append(m.hoursCalls, businessID)
	return m.hoursFunc(ctx, businessID)
}

func (m *mockProvider) GetProviderType() string {
	return "mock"
}

// Mock BatchWriter that rejects chosen postal codes
type failingWriter struct {
	next    BatchWriter
	failIDs map[string]bool
}

func (w *failingWriter) SaveBatch(ctx context.Context, batch *repositories.Batch) error {
	for _, b := range batch.Businesses {
		if w.failIDs[b.ID] {
			return errors.New("disk full")
		}
	}
	return w.next.SaveBatch(ctx, batch)
}

type testEnv struct {
	db       *gorm.DB
	sqlDB    *sqlx.DB
	repo     *repositories.BubbleTeaRepo
	zipRepo  *repositories.ZipCodeRepo
	runRepo  *repositories.ImportRunRepo
	metrics  *metrics.ImportMetrics
	provider *mockProvider
}

// Setup test database seeded with reference postal codes
func setupTestEnv(t *testing.T, zips ...gormModels.ZipCode) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	pool, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get pool: %v", err)
	}
	pool.SetMaxOpenConns(1)
	t.Cleanup(func() { pool.Close() })

	if err := db.AutoMigrate(&gormModels.BubbleTea{}, &gormModels.Hours{}, &gormModels.ZipCode{}, &gormModels.ImportRun{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	if len(zips) > 0 {
		if err := db.Create(&zips).Error; err != nil {
			t.Fatalf("Failed to seed zip codes: %v", err)
		}
	}

	sqlDB := sqlx.NewDb(pool, "sqlite3")
	return &testEnv{
		db:       db,
		sqlDB:    sqlDB,
		repo:     repositories.NewBubbleTeaRepo(db),
		zipRepo:  repositories.NewZipCodeRepo(sqlDB),
		runRepo:  repositories.NewImportRunRepo(db),
		metrics:  metrics.NewImportMetrics(),
		provider: &mockProvider{},
	}
}

func (e *testEnv) job(t *testing.T, importHours bool, writer BatchWriter) *BubbleTeaImportJob {
	if writer == nil {
		writer = e.repo
	}
	return NewBubbleTeaImportJob(e.provider, e.zipRepo, writer, e.runRepo, e.metrics, ImportOptions{
		Region:      "CA",
		Category:    "bubbletea",
		Limit:       50,
		SortBy:      "rating",
		ImportHours: importHours,
	}, zaptest.NewLogger(t).Sugar())
}

func strPtr(s string) *string {
	return &s
}

func business(id, state string, rating float64, reviews int) dtos.SearchBusiness {
	return dtos.SearchBusiness{
		ID:          id,
		Name:        "Boba House",
		Alias:       "boba-house-" + id,
		Phone:       "",
		Rating:      rating,
		ReviewCount: reviews,
		URL:         "https://www.yelp.com/biz/boba-house-" + id,
		Coordinates: dtos.BusinessCoordinate{Latitude: 37.748512, Longitude: -122.418411},
		Location: &dtos.BusinessLocation{
			City:     strPtr("San Francisco"),
			Country:  strPtr("US"),
			Address1: strPtr("3000 Mission St"),
			Address2: strPtr(""),
			Address3: strPtr(""),
			State:    strPtr(state),
			ZipCode:  strPtr("94110"),
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	return count
}

func TestRun_ImportsBusinessScenario(t *testing.T) {
	env := setupTestEnv(t, gormModels.ZipCode{Zip: "94110", State: "CA", PrimaryCity: "San Francisco"})
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		assert.Equal(t, "CA", params.Region)
		assert.Equal(t, 50, params.Limit)
		assert.Equal(t, "rating", params.SortBy)
		return []dtos.SearchBusiness{business("abc123", "CA", 4.5, 120)}, nil
	}

	summary, err := env.job(t, false, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PostalCodes)
	assert.Equal(t, 1, summary.BusinessesWritten)
	assert.Empty(t, env.provider.hoursCalls)

	row, err := env.repo.FindByID(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Nil(t, row.Phone)
	assert.Nil(t, row.Address2)
	assert.Equal(t, 4.5, row.Rating)
	assert.Equal(t, 120, row.ReviewCount)
}

func TestRun_ReimportUpdatesInPlace(t *testing.T) {
	env := setupTestEnv(t, gormModels.ZipCode{Zip: "94110", State: "CA"})
	rating, reviews := 4.5, 120
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return []dtos.SearchBusiness{business("abc123", "CA", rating, reviews)}, nil
	}

	_, err := env.job(t, false, nil).Run(context.Background())
	require.NoError(t, err)

	rating, reviews = 4.0, 200
	_, err = env.job(t, false, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, env.db, &gormModels.BubbleTea{}))
	row, err := env.repo.FindByID(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, 4.0, row.Rating)
	assert.Equal(t, 200, row.ReviewCount)
}

func TestRun_SkipsEmptyAndFailedSearches(t *testing.T) {
	env := setupTestEnv(t,
		gormModels.ZipCode{Zip: "94110", State: "CA"},
		gormModels.ZipCode{Zip: "94111", State: "CA"},
		gormModels.ZipCode{Zip: "94112", State: "CA"},
		gormModels.ZipCode{Zip: "89501", State: "NV"},
	)
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		switch params.PostalCode {
		case "94110":
			return nil, nil
		case "94111":
			return nil, &providers.ProviderError{Code: constants.ErrCodeShapeMismatch, Message: "missing data.search"}
		default:
			return []dtos.SearchBusiness{business("def456", "CA", 4.0, 10)}, nil
		}
	}

	summary, err := env.job(t, false, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"94110", "94111", "94112"}, env.provider.searched)
	assert.Equal(t, 3, summary.PostalCodes)
	assert.Equal(t, 2, summary.PostalCodesEmpty)
	assert.Equal(t, 1, summary.BusinessesWritten)
	assert.Equal(t, int64(1), countRows(t, env.db, &gormModels.BubbleTea{}))

	assert.Equal(t, float64(2), testutil.ToFloat64(env.metrics.PostalCodesTotal.WithLabelValues(constants.OutcomeNoBusinesses)))
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.APIErrorsTotal.WithLabelValues(constants.QuerySearch, constants.ErrCodeShapeMismatch)))
}

func TestImportPostalCode_NoBusinessesWritesNothing(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return []dtos.SearchBusiness{}, nil
	}

	result, err := env.job(t, true, nil).ImportPostalCode(context.Background(), "94110")
	require.NoError(t, err)

	assert.True(t, result.NoBusinesses)
	assert.Equal(t, int64(0), countRows(t, env.db, &gormModels.BubbleTea{}))
	assert.Equal(t, int64(0), countRows(t, env.db, &gormModels.Hours{}))
}

func TestImportPostalCode_SkipsOtherRegion(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return []dtos.SearchBusiness{
			business("reno1", "NV", 4.8, 300),
			business("abc123", "CA", 4.5, 120),
		}, nil
	}
	env.provider.hoursFunc = func(ctx context.Context, businessID string) ([]dtos.OpenInterval, error) {
		return []dtos.OpenInterval{{Day: 1, Start: "0900", End: "2100"}}, nil
	}

	result, err := env.job(t, true, nil).ImportPostalCode(context.Background(), "96161")
	require.NoError(t, err)

	assert.Equal(t, 1, result.BusinessesSkipped)
	assert.Equal(t, 1, result.BusinessesWritten)
	assert.Equal(t, []string{"abc123"}, env.provider.hoursCalls)

	row, err := env.repo.FindByID(context.Background(), "reno1")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestImportPostalCode_HoursUpsert(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return []dtos.SearchBusiness{business("abc123", "CA", 4.5, 120)}, nil
	}
	open := []dtos.OpenInterval{{Day: 1, Start: "0900", End: "2100", IsOvernight: false}}
	env.provider.hoursFunc = func(ctx context.Context, businessID string) ([]dtos.OpenInterval, error) {
		return open, nil
	}
	job := env.job(t, true, nil)

	_, err := job.ImportPostalCode(context.Background(), "94110")
	require.NoError(t, err)

	open = []dtos.OpenInterval{{Day: 1, Start: "1000", End: "2200", IsOvernight: false}}
	result, err := job.ImportPostalCode(context.Background(), "94110")
	require.NoError(t, err)
	assert.Equal(t, 1, result.HoursWritten)

	hours, err := env.repo.GetHours(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, 1, hours[0].Day)
	assert.Equal(t, "1000", hours[0].Start)
	assert.Equal(t, "2200", hours[0].End)
	assert.False(t, hours[0].IsOvernight)
}

func TestImportPostalCode_HoursFailureKeepsBusiness(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return []dtos.SearchBusiness{
			business("abc123", "CA", 4.5, 120),
			business("def456", "CA", 4.0, 80),
		}, nil
	}
	env.provider.hoursFunc = func(ctx context.Context, businessID string) ([]dtos.OpenInterval, error) {
		if businessID == "abc123" {
			return nil, &providers.ProviderError{Code: constants.ErrCodeNetworkError, Message: "timeout", Err: context.DeadlineExceeded}
		}
		return []dtos.OpenInterval{{Day: 3, Start: "1100", End: "2000"}}, nil
	}

	result, err := env.job(t, true, nil).ImportPostalCode(context.Background(), "94110")
	require.NoError(t, err)

	assert.Equal(t, 2, result.BusinessesWritten)
	assert.Equal(t, 1, result.HoursMissing)
	assert.Equal(t, []string{"abc123", "def456"}, env.provider.hoursCalls)

	first, err := env.repo.FindByID(context.Background(), "abc123")
	require.NoError(t, err)
	assert.NotNil(t, first)

	missing, err := env.repo.GetHours(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Empty(t, missing)

	present, err := env.repo.GetHours(context.Background(), "def456")
	require.NoError(t, err)
	assert.Len(t, present, 1)

	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.APIErrorsTotal.WithLabelValues(constants.QueryHours, constants.ErrCodeNetworkError)))
}

func TestRun_BatchFailureRollsBackAndContinues(t *testing.T) {
	env := setupTestEnv(t,
		gormModels.ZipCode{Zip: "94110", State: "CA"},
		gormModels.ZipCode{Zip: "94112", State: "CA"},
	)
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		if params.PostalCode == "94110" {
			return []dtos.SearchBusiness{business("abc123", "CA", 4.5, 120), business("bad999", "CA", 3.0, 1)}, nil
		}
		return []dtos.SearchBusiness{business("def456", "CA", 4.0, 10)}, nil
	}
	writer := &failingWriter{next: env.repo, failIDs: map[string]bool{"bad999": true}}

	summary, err := env.job(t, false, writer).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.PostalCodes)
	assert.Equal(t, 1, summary.BatchesFailed)
	assert.Equal(t, 1, summary.BusinessesWritten)

	row, err := env.repo.FindByID(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, row)

	row, err = env.repo.FindByID(context.Background(), "def456")
	require.NoError(t, err)
	assert.NotNil(t, row)
}

func TestRun_RecordsImportRun(t *testing.T) {
	env := setupTestEnv(t, gormModels.ZipCode{Zip: "94110", State: "CA"})
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return []dtos.SearchBusiness{business("abc123", "CA", 4.5, 120)}, nil
	}

	summary, err := env.job(t, false, nil).Run(context.Background())
	require.NoError(t, err)

	run, err := env.runRepo.GetLastRun(context.Background(), "CA")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, summary.RunID, run.ID)
	assert.Equal(t, 1, run.PostalCodes)
	assert.Equal(t, 1, run.BusinessesWritten)
	assert.Empty(t, summary.PreviousRunID)

	second, err := env.job(t, false, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, second.PreviousRunID)
}

func TestRun_LogsProviderAndPostalCodeCount(t *testing.T) {
	env := setupTestEnv(t, gormModels.ZipCode{Zip: "94110", State: "CA"})
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return nil, nil
	}
	core, logs := observer.New(zapcore.InfoLevel)

	job := NewBubbleTeaImportJob(env.provider, env.zipRepo, env.repo, env.runRepo, env.metrics, ImportOptions{
		Region: "CA", Category: "bubbletea", Limit: 50, SortBy: "rating",
	}, zap.New(core).Sugar())
	_, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("No previous import run").Len())
	started := logs.FilterMessage("Starting bubble tea import").All()
	require.Len(t, started, 1)
	fields := started[0].ContextMap()
	assert.Equal(t, "mock", fields["provider"])
	assert.Equal(t, int64(1), fields["postal_codes"])
}

func TestRun_SearchesDuplicateZipOnce(t *testing.T) {
	env := setupTestEnv(t,
		gormModels.ZipCode{Zip: "94110", State: "CA"},
		gormModels.ZipCode{Zip: "90012", State: "CA"},
		gormModels.ZipCode{Zip: "94110", State: "CA"},
	)
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return nil, nil
	}

	summary, err := env.job(t, false, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"94110", "90012"}, env.provider.searched)
	assert.Equal(t, 2, summary.PostalCodes)
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	env := setupTestEnv(t,
		gormModels.ZipCode{Zip: "94110", State: "CA"},
		gormModels.ZipCode{Zip: "94112", State: "CA"},
	)
	env.provider.searchFunc = func(ctx context.Context, params providers.SearchParams) ([]dtos.SearchBusiness, error) {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.job(t, false, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, env.provider.searched)
}
