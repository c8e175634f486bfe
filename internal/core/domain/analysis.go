package domain

// ScanAnalysis is the engine's structured output for one scan. It is a
// value object: validated once on arrival, then immutable. Every numeric
// field carries its closed range as a validate tag and every categorical
// field its value set; see Validate in validate.go.
type ScanAnalysis struct {
	Metrics             FaceMetrics             `json:"metrics"`
	Improvements        []ImprovementSuggestion `json:"improvements" validate:"dive"`
	TopStrengths        []string                `json:"top_strengths"`
	FocusAreas          []string                `json:"focus_areas"`
	RecommendedCourses  []string                `json:"recommended_courses"`
	PersonalizedSummary string                  `json:"personalized_summary"`
	EstimatedPotential  float64                 `json:"estimated_potential" validate:"gte=0,lte=10"`
}

type FaceMetrics struct {
	OverallScore    float64 `json:"overall_score" validate:"gte=0,lte=10"`
	HarmonyScore    float64 `json:"harmony_score" validate:"gte=0,lte=10"`
	ConfidenceScore float64 `json:"confidence_score" validate:"gte=0,lte=1"`

	Jawline     JawlineMetrics    `json:"jawline"`
	Cheekbones  CheekbonesMetrics `json:"cheekbones"`
	EyeArea     EyeAreaMetrics    `json:"eye_area"`
	Skin        SkinMetrics       `json:"skin"`
	Proportions ProportionMetrics `json:"proportions"`
	Profile     ProfileMetrics    `json:"profile"`

	ImageQualityFront float64 `json:"image_quality_front" validate:"gte=0,lte=10"`
	ImageQualityLeft  float64 `json:"image_quality_left" validate:"gte=0,lte=10"`
	ImageQualityRight float64 `json:"image_quality_right" validate:"gte=0,lte=10"`
}

type JawlineMetrics struct {
	DefinitionScore     float64 `json:"definition_score" validate:"gte=0,lte=10"`
	SymmetryScore       float64 `json:"symmetry_score" validate:"gte=0,lte=10"`
	MasseterDevelopment float64 `json:"masseter_development" validate:"gte=0,lte=10"`
	ChinProjection      float64 `json:"chin_projection" validate:"gte=0,lte=10"`
	ChinShape           string  `json:"chin_shape" validate:"oneof=pointed square round cleft average"`
	Notes               string  `json:"notes"`
}

type CheekbonesMetrics struct {
	ProminenceScore float64 `json:"prominence_score" validate:"gte=0,lte=10"`
	WidthScore      float64 `json:"width_score" validate:"gte=0,lte=10"`
	HollownessBelow float64 `json:"hollowness_below" validate:"gte=0,lte=10"`
	SymmetryScore   float64 `json:"symmetry_score" validate:"gte=0,lte=10"`
	HeightPosition  string  `json:"height_position" validate:"oneof=high medium low"`
	Notes           string  `json:"notes"`
}

type EyeAreaMetrics struct {
	CanthalTilt        string  `json:"canthal_tilt" validate:"oneof=positive neutral negative"`
	EyeShape           string  `json:"eye_shape" validate:"oneof=almond round hooded monolid downturned upturned"`
	UnderEyeArea       float64 `json:"under_eye_area" validate:"gte=0,lte=10"`
	BrowBoneProminence float64 `json:"brow_bone_prominence" validate:"gte=0,lte=10"`
	SymmetryScore      float64 `json:"symmetry_score" validate:"gte=0,lte=10"`
	Notes              string  `json:"notes"`
}

type SkinMetrics struct {
	OverallQuality float64 `json:"overall_quality" validate:"gte=0,lte=10"`
	TextureScore   float64 `json:"texture_score" validate:"gte=0,lte=10"`
	ClarityScore   float64 `json:"clarity_score" validate:"gte=0,lte=10"`
	ToneEvenness   float64 `json:"tone_evenness" validate:"gte=0,lte=10"`
	SkinType       string  `json:"skin_type" validate:"oneof=normal oily dry combination sensitive"`
	AcnePresence   string  `json:"acne_presence" validate:"oneof=none mild moderate severe"`
	Notes          string  `json:"notes"`
}

type ProportionMetrics struct {
	FaceShape            string  `json:"face_shape" validate:"oneof=oval round square heart oblong diamond triangle"`
	FacialThirdsBalance  float64 `json:"facial_thirds_balance" validate:"gte=0,lte=10"`
	HorizontalFifths     float64 `json:"horizontal_fifths_balance" validate:"gte=0,lte=10"`
	OverallSymmetry      float64 `json:"overall_symmetry" validate:"gte=0,lte=10"`
	GoldenRatioAdherence float64 `json:"golden_ratio_adherence" validate:"gte=0,lte=10"`
	Notes                string  `json:"notes"`
}

type ProfileMetrics struct {
	NoseProjection float64 `json:"nose_projection" validate:"gte=0,lte=10"`
	ChinProjection float64 `json:"chin_projection" validate:"gte=0,lte=10"`
	SubmentalArea  float64 `json:"submental_area" validate:"gte=0,lte=10"`
	ProfileHarmony float64 `json:"profile_harmony" validate:"gte=0,lte=10"`
	Notes          string  `json:"notes"`
}

// ImprovementSuggestion is one actionable recommendation. PotentialScore
// can never undercut CurrentScore.
type ImprovementSuggestion struct {
	Area           string   `json:"area" validate:"required"`
	Priority       string   `json:"priority" validate:"oneof=high medium low"`
	CurrentScore   float64  `json:"current_score" validate:"gte=0,lte=10"`
	PotentialScore float64  `json:"potential_score" validate:"gte=0,lte=10,gtefield=CurrentScore"`
	Suggestion     string   `json:"suggestion"`
	Exercises      []string `json:"exercises,omitempty"`
	Products       []string `json:"products,omitempty"`
	Timeframe      string   `json:"timeframe,omitempty"`
	CourseID       string   `json:"course_id,omitempty"`
}
