package quality

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/profiling"
	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/interfaces"
	"github.com/tablens/tablens/pkg/models"
)

// EngineConfig configures which detection passes run during analysis
type EngineConfig struct {
	OutlierDetection     bool `json:"outlier_detection" yaml:"outlier_detection"`
	ContextualValidation bool `json:"contextual_validation" yaml:"contextual_validation"`
	CrossFieldValidation bool `json:"cross_field_validation" yaml:"cross_field_validation"`
}

func getDefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		OutlierDetection:     true,
		ContextualValidation: true,
		CrossFieldValidation: true,
	}
}

// Engine runs one full profiling pass over a dataset: type inference,
// statistics, duplicate and outlier detection, contextual and cross-field
// validation, rolled into a quality score. A pass is a pure function of
// its input; concurrent passes over the same dataset are safe because
// nothing is mutated.
type Engine struct {
	config     *EngineConfig
	logger     *logrus.Logger
	contextual *validation.ContextualValidator
	crossField *validation.CrossFieldValidator
}

// NewEngine creates an analysis engine
func NewEngine(config *EngineConfig, logger *logrus.Logger) *Engine {
	if config == nil {
		config = getDefaultEngineConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		config:     config,
		logger:     logger,
		contextual: validation.NewContextualValidator(logger),
		crossField: validation.NewCrossFieldValidator(logger),
	}
}

// Analyze profiles the dataset and returns an immutable snapshot. The
// optional sink receives checkpoint callbacks between passes; a nil sink
// disables progress reporting. A cancelled context aborts between passes,
// never mid-pass.
func (e *Engine) Analyze(ctx context.Context, ds *models.Dataset, sink interfaces.ProgressSink) (*models.AnalysisResult, error) {
	if ds == nil || len(ds.Columns) == 0 {
		return nil, errors.WrapError(errors.ErrEmptyHeaders, errors.ErrorTypeValidation, "EMPTY_HEADERS", "analysis requires at least one column")
	}
	if len(ds.Rows) == 0 {
		return nil, errors.WrapError(errors.ErrEmptyDataset, errors.ErrorTypeValidation, "EMPTY_DATASET", "analysis requires at least one row")
	}

	e.logger.WithFields(logrus.Fields{
		"dataset_id": ds.ID,
		"rows":       len(ds.Rows),
		"columns":    len(ds.Columns),
	}).Info("Starting dataset analysis")

	start := time.Now()
	report := func(stage string, percent int) {
		if sink != nil {
			sink(stage, percent)
		}
	}

	result := &models.AnalysisResult{
		DatasetID:   ds.ID,
		RowCount:    len(ds.Rows),
		ColumnCount: len(ds.Columns),
		NullCounts:  make(map[string]int, len(ds.Columns)),
		ColumnStats: make(map[string]*models.ColumnStats, len(ds.Columns)),
		Outliers:    make(map[string][]models.OutlierInfo),
		AnalyzedAt:  start,
	}

	result.ColumnTypes = profiling.InferTypes(ds)
	report("type_inference", 15)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, col := range ds.Columns {
		values := ds.ColumnValues(col)
		nulls := 0
		for _, v := range values {
			if models.IsMissing(v) {
				nulls++
			}
		}
		result.NullCounts[col] = nulls
		result.ColumnStats[col] = profiling.ComputeColumnStats(values, result.ColumnTypes[col])
	}
	report("statistics", 40)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.DuplicateCount = profiling.CountDuplicates(ds)
	report("duplicates", 55)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.config.OutlierDetection {
		for _, col := range ds.Columns {
			if result.ColumnTypes[col] != models.ColumnTypeNumber {
				continue
			}
			if outliers := profiling.DetectOutliers(ds.ColumnValues(col)); len(outliers) > 0 {
				result.Outliers[col] = outliers
			}
		}
	}
	report("outliers", 70)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.config.ContextualValidation {
		result.ContextualIssues = e.contextual.Validate(ds, result.ColumnTypes)
	}
	report("contextual_validation", 85)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.config.CrossFieldValidation {
		result.CrossFieldIssues = e.crossField.Validate(ds)
	}
	report("cross_field_validation", 95)

	result.QualityScore = profiling.ComputeQualityScore(result)
	report("complete", 100)

	e.logger.WithFields(logrus.Fields{
		"dataset_id":    ds.ID,
		"quality_score": result.QualityScore,
		"duplicates":    result.DuplicateCount,
		"issues":        result.IssueCount(),
		"duration":      time.Since(start),
	}).Info("Dataset analysis completed")

	return result, nil
}
