package domain

import "testing"

func validAnalysis() *ScanAnalysis {
	return &ScanAnalysis{
		Metrics: FaceMetrics{
			OverallScore:    7.4,
			HarmonyScore:    6.9,
			ConfidenceScore: 0.92,
			Jawline: JawlineMetrics{
				DefinitionScore:     7.0,
				SymmetryScore:       8.1,
				MasseterDevelopment: 5.5,
				ChinProjection:      6.2,
				ChinShape:           "square",
			},
			Cheekbones: CheekbonesMetrics{
				ProminenceScore: 6.8,
				WidthScore:      7.1,
				HollownessBelow: 5.0,
				SymmetryScore:   7.7,
				HeightPosition:  "high",
			},
			EyeArea: EyeAreaMetrics{
				CanthalTilt:        "positive",
				EyeShape:           "almond",
				UnderEyeArea:       6.5,
				BrowBoneProminence: 5.9,
				SymmetryScore:      7.2,
			},
			Skin: SkinMetrics{
				OverallQuality: 6.0,
				TextureScore:   6.5,
				ClarityScore:   5.8,
				ToneEvenness:   6.1,
				SkinType:       "combination",
				AcnePresence:   "mild",
			},
			Proportions: ProportionMetrics{
				FaceShape:            "oval",
				FacialThirdsBalance:  7.3,
				HorizontalFifths:     6.6,
				OverallSymmetry:      7.5,
				GoldenRatioAdherence: 6.8,
			},
			Profile: ProfileMetrics{
				NoseProjection: 6.4,
				ChinProjection: 6.0,
				SubmentalArea:  7.2,
				ProfileHarmony: 6.7,
			},
			ImageQualityFront: 8.5,
			ImageQualityLeft:  8.0,
			ImageQualityRight: 7.8,
		},
		Improvements: []ImprovementSuggestion{
			{
				Area:           "jawline",
				Priority:       "high",
				CurrentScore:   7.0,
				PotentialScore: 8.5,
				Suggestion:     "reduce body fat and train the masseter",
			},
		},
		TopStrengths:       []string{"eye area", "symmetry"},
		FocusAreas:         []string{"skin clarity"},
		RecommendedCourses: []string{"course-jawline-101"},
		EstimatedPotential: 8.6,
	}
}

func TestValidateAcceptsWellFormedAnalysis(t *testing.T) {
	if err := validAnalysis().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsOutOfRangeScore(t *testing.T) {
	a := validAnalysis()
	a.Metrics.OverallScore = 10.5

	err := a.Validate()
	if err == nil {
		t.Fatalf("expected error for out-of-range overall score")
	}
	if !IsKind(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestValidateRejectsConfidenceAboveOne(t *testing.T) {
	a := validAnalysis()
	a.Metrics.ConfidenceScore = 1.2

	if err := a.Validate(); !IsKind(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestValidateRejectsUnknownCategorical(t *testing.T) {
	a := validAnalysis()
	a.Metrics.Proportions.FaceShape = "hexagonal"

	if err := a.Validate(); !IsKind(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestValidateRejectsPotentialBelowCurrent(t *testing.T) {
	a := validAnalysis()
	a.Improvements[0].PotentialScore = a.Improvements[0].CurrentScore - 1

	if err := a.Validate(); !IsKind(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestValidateRejectsNilAnalysis(t *testing.T) {
	var a *ScanAnalysis
	if err := a.Validate(); !IsKind(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestValidateRejectsNegativeNestedScore(t *testing.T) {
	a := validAnalysis()
	a.Metrics.Skin.ClarityScore = -0.1

	if err := a.Validate(); !IsKind(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}
