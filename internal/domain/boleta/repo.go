package boleta

import "context"

// ResultRowRepository is the data source collaborator: one range query
// streamed row by row, plus the annotation write-back path used by the
// surrounding application outside the consolidation scan.
type ResultRowRepository interface {
	// StreamByReceptionRange runs the range query and invokes fn once
	// per row, in reception-timestamp ascending order. It issues no
	// secondary queries during the scan.
	StreamByReceptionRange(ctx context.Context, from, to string, fn func(*RawResultRow) error) error

	// UpdateAnnotation writes the update annotation for an order back
	// to the source. Failures are hard errors; there is no retry.
	UpdateAnnotation(ctx context.Context, orderID, value string) error
}
