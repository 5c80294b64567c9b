package boleta

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service runs report generation and export. Single-threaded by
// design: one query, one in-memory fold, one file write per run, and
// every run starts from a fresh Report.
type Service struct {
	rows   ResultRowRepository
	logger zerolog.Logger
}

func NewService(rows ResultRowRepository, logger zerolog.Logger) *Service {
	return &Service{rows: rows, logger: logger}
}

// Generate scans the date range and folds every row into a Report.
// A scan failure aborts the remainder of the loop but the boletas
// built so far are still returned alongside the error — a partial
// report is more useful to the operator than none.
func (s *Service) Generate(ctx context.Context, from, to string) (*Report, error) {
	report := NewReport()
	logger := s.logger.With().Str("run_id", uuid.NewString()).Logger()

	scanErr := s.rows.StreamByReceptionRange(ctx, from, to, func(row *RawResultRow) error {
		report.Fold(row)
		return nil
	})

	for _, id := range report.Sweep() {
		logger.Warn().Str("order_id", id).
			Msg("rejected boleta carried result timestamps; forced to accepted (likely duplicate order upstream)")
	}

	logger.Info().
		Str("from", from).Str("to", to).
		Int("boletas", report.Len()).
		Int("accepted", report.Accepted()).
		Int("anomalies", len(report.Anomalies)).
		Msg("report generated")

	if scanErr != nil {
		logger.Error().Err(scanErr).Int("boletas", report.Len()).
			Msg("scan aborted; returning partial report")
		return report, fmt.Errorf("generate report %s..%s: %w", from, to, scanErr)
	}
	return report, nil
}

// Export renders a report to path in the legacy file format. The file
// is written fully or not at all.
func (s *Service) Export(report *Report, path string) error {
	if err := WriteFile(report, path); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	s.logger.Info().Str("path", path).Int("boletas", report.Len()).Msg("report exported")
	return nil
}

// UpdateAnnotation writes the update annotation for an order back to
// the data source.
func (s *Service) UpdateAnnotation(ctx context.Context, orderID, value string) error {
	if orderID == "" || orderID == sentinelOrderID {
		return fmt.Errorf("invalid order id %q", orderID)
	}
	return s.rows.UpdateAnnotation(ctx, orderID, value)
}
