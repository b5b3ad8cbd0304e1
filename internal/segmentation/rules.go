package segmentation

import "github.com/jengzang/travel-segments-go/internal/models"

// segmentRule pairs a predicate with the label it assigns
type segmentRule struct {
	label   string
	matches func(n *models.NormalizedFeatures, s models.SegmentScore) bool
}

// segmentRules are evaluated in order; the first match wins
var segmentRules = []segmentRule{
	{models.SegmentWindowShopper, func(n *models.NormalizedFeatures, _ models.SegmentScore) bool {
		return n.IsNonBooker
	}},
	{models.SegmentFrequentFlyer, func(n *models.NormalizedFeatures, _ models.SegmentScore) bool {
		return n.IsFrequentFlyer
	}},
	{models.SegmentFreshExplorer, func(n *models.NormalizedFeatures, _ models.SegmentScore) bool {
		return n.IsNewCustomer
	}},
	{models.SegmentYoungEscaper, func(_ *models.NormalizedFeatures, s models.SegmentScore) bool {
		return s.YoungExplorer > YoungExplorerThreshold
	}},
	{models.SegmentFamily, func(_ *models.NormalizedFeatures, s models.SegmentScore) bool {
		return s.Family >= max(s.DealHunter, s.Business)
	}},
	{models.SegmentBargainSeeker, func(_ *models.NormalizedFeatures, s models.SegmentScore) bool {
		return s.DealHunter >= s.Business
	}},
	{models.SegmentBusinessTraveller, func(_ *models.NormalizedFeatures, s models.SegmentScore) bool {
		return s.Business >= BusinessThreshold
	}},
}

// AssignSegment returns the label of the first matching rule
func AssignSegment(n *models.NormalizedFeatures, s models.SegmentScore) string {
	for _, r := range segmentRules {
		if r.matches(n, s) {
			return r.label
		}
	}
	return models.SegmentLeisureExplorer
}

// AssignSegments scores and labels every user
func AssignSegments(normalized []models.NormalizedFeatures) []models.SegmentAssignment {
	assignments := make([]models.SegmentAssignment, len(normalized))
	for i := range normalized {
		n := &normalized[i]
		score := Score(n)
		assignments[i] = models.SegmentAssignment{
			UserID:   n.UserID,
			Segment:  AssignSegment(n, score),
			Score:    score,
			Features: n,
		}
	}
	return assignments
}
