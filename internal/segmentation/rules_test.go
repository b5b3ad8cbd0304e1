package segmentation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/travel-segments-go/internal/models"
)

func TestAssignSegmentOrder(t *testing.T) {
	tests := []struct {
		name     string
		features models.NormalizedFeatures
		score    models.SegmentScore
		want     string
	}{
		{
			name: "non booker beats frequent flyer",
			features: models.NormalizedFeatures{
				IsNonBooker:  true,
				UserFeatures: models.UserFeatures{IsFrequentFlyer: true},
			},
			want: models.SegmentWindowShopper,
		},
		{
			name:     "frequent flyer beats business",
			features: models.NormalizedFeatures{UserFeatures: models.UserFeatures{IsFrequentFlyer: true, IsNewCustomer: true}},
			score:    models.SegmentScore{Business: 0.9},
			want:     models.SegmentFrequentFlyer,
		},
		{
			name:     "new customer",
			features: models.NormalizedFeatures{UserFeatures: models.UserFeatures{IsNewCustomer: true}},
			score:    models.SegmentScore{YoungExplorer: 0.9},
			want:     models.SegmentFreshExplorer,
		},
		{
			name:  "young explorer above threshold",
			score: models.SegmentScore{YoungExplorer: 0.51, Family: 1},
			want:  models.SegmentYoungEscaper,
		},
		{
			name:  "young explorer at threshold falls through",
			score: models.SegmentScore{YoungExplorer: 0.5, Family: 0.3, Business: 0.3, DealHunter: 0.1},
			want:  models.SegmentFamily,
		},
		{
			name:  "deal hunter ties business",
			score: models.SegmentScore{Family: 0.1, DealHunter: 0.45, Business: 0.45},
			want:  models.SegmentBargainSeeker,
		},
		{
			name:  "business traveller",
			score: models.SegmentScore{Family: 0.1, DealHunter: 0.2, Business: 0.4},
			want:  models.SegmentBusinessTraveller,
		},
		{
			name:  "leisure explorer",
			score: models.SegmentScore{Family: 0.1, DealHunter: 0.2, Business: 0.39},
			want:  models.SegmentLeisureExplorer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssignSegment(&tt.features, tt.score))
		})
	}
}

func TestScoreWeights(t *testing.T) {
	n := &models.NormalizedFeatures{
		UserFeatures: models.UserFeatures{
			UserProfile:       models.UserProfile{Age: ptr(25), HasChildren: true, Married: true},
			WeekdayRate:       0.5,
			DiscountUsageRate: 0.5,
		},
		BagsNorm:         ptr(0.5),
		SeatsNorm:        ptr(1.0),
		FlightCostNorm:   ptr(0.25),
		IsShortSession:   true,
		IsLongSession:    true,
		IsHighEngagement: true,
		IsShortStay:      true,
	}

	s := Score(n)

	assert.InDelta(t, 0.15+0.2*0.5+0+0.45*0.5, s.Business, 1e-12)
	assert.InDelta(t, 0.25+0.45+0.25*0.5+0.05, s.Family, 1e-12)
	// Nil hotel cost counts as zero
	assert.InDelta(t, 0.6*0.25, s.Luxury, 1e-12)
	assert.InDelta(t, 0.2+0.1+0.35, s.DealHunter, 1e-12)
	assert.InDelta(t, 0.3+0.3+0.2+0.2*0.75, s.YoungExplorer, 1e-12)
}
