package contract

import "github.com/alexanderramin/studytime/internal/domain"

// BatchItemResult is the outcome for one request of a batch, at the same
// index as the request. Exactly one of Record and Err is set.
type BatchItemResult struct {
	Index     int
	SessionID string
	Record    *domain.StudyTimeRecord
	Err       error
}

// BatchResult collects per-item outcomes. A failed item never aborts the
// others.
type BatchResult struct {
	Items     []BatchItemResult
	Succeeded int
	Failed    int
}

// Errors returns the failed items in request order.
func (b *BatchResult) Errors() []BatchItemResult {
	var failed []BatchItemResult
	for _, it := range b.Items {
		if it.Err != nil {
			failed = append(failed, it)
		}
	}
	return failed
}
