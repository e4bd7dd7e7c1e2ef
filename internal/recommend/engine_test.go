package recommend

import (
	"strings"
	"testing"

	"parkfinder/internal/domain/entities"
)

var testDest = entities.NewLocation(40.4425, -79.9945)

func option(name string, price, driveKm, lat, lng float64) entities.ParkingOption {
	return entities.ParkingOption{
		Name:          name,
		Location:      entities.NewLocation(lat, lng),
		PricePerHour:  price,
		DriveDistance: driveKm,
	}
}

func TestRecommend_EmptyCandidates(t *testing.T) {
	_, err := Recommend(testDest, nil, 2, 0.3)
	if err != ErrNoCandidates {
		t.Errorf("Expected ErrNoCandidates, got %v", err)
	}
}

func TestRecommend_InvalidDuration(t *testing.T) {
	candidates := []entities.ParkingOption{option("A", 2.0, 1.0, 40.4405, -79.9959)}

	for _, d := range []float64{0, -1} {
		if _, err := Recommend(testDest, candidates, d, 0.3); err != ErrInvalidDuration {
			t.Errorf("duration %f: expected ErrInvalidDuration, got %v", d, err)
		}
	}
}

func TestRecommend_PriceWeightOnePrefersCheapest(t *testing.T) {
	candidates := []entities.ParkingOption{
		option("Pricey", 3.0, 0.2, 40.4405, -79.9959),
		option("Cheap", 1.5, 2.5, 40.4420, -79.9965),
		option("Middle", 2.0, 1.0, 40.4415, -79.9930),
	}

	rec, err := Recommend(testDest, candidates, 2, 1.0)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Best.Name != "Cheap" {
		t.Errorf("Expected cheapest candidate with price_weight=1, got %s", rec.Best.Name)
	}
}

func TestRecommend_PriceWeightZeroPrefersNearest(t *testing.T) {
	candidates := []entities.ParkingOption{
		option("Pricey", 3.0, 0.2, 40.4405, -79.9959),
		option("Cheap", 1.5, 2.5, 40.4420, -79.9965),
	}

	rec, err := Recommend(testDest, candidates, 2, 0.0)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Best.Name != "Pricey" {
		t.Errorf("Expected nearest candidate with price_weight=0, got %s", rec.Best.Name)
	}
}

func TestRecommend_BestScoreIsMinimal(t *testing.T) {
	candidates := []entities.ParkingOption{
		option("A", 3.0, 0.4, 40.4405, -79.9959),
		option("B", 2.0, 1.1, 40.4415, -79.9930),
		option("C", 1.5, 1.8, 40.4420, -79.9965),
		option("D", 2.5, 0.7, 40.4430, -79.9940),
	}

	rec, err := Recommend(testDest, candidates, 3, 0.4)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for _, alt := range rec.Alternatives {
		if rec.BestScore > alt.Score {
			t.Errorf("Best score %f exceeds alternative %s score %f",
				rec.BestScore, alt.Option.Name, alt.Score)
		}
	}
	if len(rec.Alternatives) != len(candidates)-1 {
		t.Errorf("Expected %d alternatives, got %d", len(candidates)-1, len(rec.Alternatives))
	}
}

func TestRecommend_TieKeepsFirstCandidate(t *testing.T) {
	// Identical price and distance: every score is 0, first wins.
	candidates := []entities.ParkingOption{
		option("First", 2.0, 1.0, 40.4405, -79.9959),
		option("Second", 2.0, 1.0, 40.4405, -79.9959),
	}

	rec, err := Recommend(testDest, candidates, 2, 0.5)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Best.Name != "First" {
		t.Errorf("Expected stable tie-break on first candidate, got %s", rec.Best.Name)
	}
}

func TestRecommend_UniformDimensionContributesZero(t *testing.T) {
	// All candidates cost the same; only distance can discriminate, even
	// with a high price weight.
	candidates := []entities.ParkingOption{
		option("Far", 2.0, 3.0, 40.4405, -79.9959),
		option("Near", 2.0, 0.5, 40.4415, -79.9930),
	}

	rec, err := Recommend(testDest, candidates, 2, 0.9)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Best.Name != "Near" {
		t.Errorf("Expected distance to decide when costs are uniform, got %s", rec.Best.Name)
	}
}

func TestRecommend_OutOfRangeWeightClamped(t *testing.T) {
	candidates := []entities.ParkingOption{
		option("Pricey", 3.0, 0.2, 40.4405, -79.9959),
		option("Cheap", 1.5, 2.5, 40.4420, -79.9965),
	}

	// Weight above 1 behaves like 1 (pure price).
	rec, err := Recommend(testDest, candidates, 2, 1.7)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Best.Name != "Cheap" {
		t.Errorf("Expected clamped weight to prefer cheapest, got %s", rec.Best.Name)
	}

	// Weight below 0 behaves like 0 (pure distance).
	rec, err = Recommend(testDest, candidates, 2, -0.5)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Best.Name != "Pricey" {
		t.Errorf("Expected clamped weight to prefer nearest, got %s", rec.Best.Name)
	}
}

func TestRecommend_FillsDerivedFields(t *testing.T) {
	candidates := []entities.ParkingOption{
		option("A", 2.5, 1.0, 40.4430, -79.9940),
		option("B", 1.0, 2.0, 40.4392, -80.0003),
	}

	rec, err := Recommend(testDest, candidates, 2, 0.5)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	for _, opt := range append([]entities.ParkingOption{rec.Best}, rec.Alternatives[0].Option) {
		if opt.EstimatedCost != opt.PricePerHour*2 {
			t.Errorf("%s: expected estimated cost %f, got %f",
				opt.Name, opt.PricePerHour*2, opt.EstimatedCost)
		}
		if opt.WalkDistance <= 0 {
			t.Errorf("%s: expected walk distance computed from destination", opt.Name)
		}
	}

	// Input slice stays untouched.
	if candidates[0].EstimatedCost != 0 || candidates[0].WalkDistance != 0 {
		t.Error("Expected input candidates to remain unmodified")
	}
}

func TestCompareToBest_Reasons(t *testing.T) {
	best := entities.ParkingOption{EstimatedCost: 4.0, WalkDistance: 0.2}

	cheaperFarther := entities.ParkingOption{EstimatedCost: 2.0, WalkDistance: 0.6}
	reason := CompareToBest(cheaperFarther, best)
	if !strings.Contains(reason, "saves $2.00") || !strings.Contains(reason, "longer walk") {
		t.Errorf("Unexpected reason for cheaper-but-farther: %q", reason)
	}

	pricierCloser := entities.ParkingOption{EstimatedCost: 6.0, WalkDistance: 0.05}
	reason = CompareToBest(pricierCloser, best)
	if !strings.Contains(reason, "costs $2.00 more") || !strings.Contains(reason, "shorter walk") {
		t.Errorf("Unexpected reason for pricier-but-closer: %q", reason)
	}

	similar := entities.ParkingOption{EstimatedCost: 4.2, WalkDistance: 0.21}
	if reason = CompareToBest(similar, best); reason != "similar option" {
		t.Errorf("Expected \"similar option\", got %q", reason)
	}
}
