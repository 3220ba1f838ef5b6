package studytime

import "github.com/alexanderramin/studytime/internal/domain"

// QualityAssessor scores how attentively a session was studied.
type QualityAssessor struct {
	ratios   RatioSource
	weights  Weights
	minScore float64
	minFocus float64
}

// NewQualityAssessor creates a QualityAssessor from the weights and review
// thresholds in p.
func NewQualityAssessor(ratios RatioSource, p Policy) *QualityAssessor {
	p = p.WithDefaults()
	return &QualityAssessor{
		ratios:   ratios,
		weights:  p.Weights,
		minScore: p.ReviewScoreThreshold,
		minFocus: p.ReviewFocusThreshold,
	}
}

// CalculateQualityScores stores the raw focus, interaction and continuity
// ratios on rec along with the weighted composite score on a 0-10 scale.
// Ratios are clamped to [0, 1] before weighting. NaN ratios are stored as 0.
func (q *QualityAssessor) CalculateQualityScores(rec *domain.StudyTimeRecord, events []domain.BehaviorEvent) {
	focus := zeroIfNaN(q.ratios.FocusRatio(events))
	interaction := zeroIfNaN(q.ratios.InteractionRatio(events))
	continuity := zeroIfNaN(q.ratios.ContinuityRatio(events))

	weighted := q.weights.Focus*clamp(focus, 0, 1) +
		q.weights.Interaction*clamp(interaction, 0, 1) +
		q.weights.Continuity*clamp(continuity, 0, 1)
	score := clamp(MaxQualityScore*weighted, 0, MaxQualityScore)

	rec.QualityScore = domain.Float64Ptr(score)
	rec.FocusScore = domain.Float64Ptr(focus)
	rec.InteractionScore = domain.Float64Ptr(interaction)
	rec.ContinuityScore = domain.Float64Ptr(continuity)
}

// NeedsQualityReview reports whether rec should be checked by a person.
// Records that were never scored always need review.
func (q *QualityAssessor) NeedsQualityReview(rec *domain.StudyTimeRecord) bool {
	if rec.QualityScore == nil || rec.FocusScore == nil {
		return true
	}
	return *rec.QualityScore < q.minScore || *rec.FocusScore < q.minFocus
}
