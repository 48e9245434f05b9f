package schema

import "time"

// EnrichedResult adds presentation data to a PredictionResult.
type EnrichedResult struct {
	SignA       ZodiacSign `json:"sign_a"`
	SignB       ZodiacSign `json:"sign_b"`
	Label       string     `json:"label"`
	IsHighScore bool       `json:"is_high_score"`
	IsLowScore  bool       `json:"is_low_score"`
	PredictionResult
}

// EnrichedTier adds presentation data to a ScoreRange.
type EnrichedTier struct {
	Rank  int    `json:"rank"`
	Label string `json:"label_class"`
	ScoreRange
}

// ShareData is the payload handed to a share sink.
type ShareData struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
}

// ShareOutcome reports what happened to a share attempt.
// Acknowledgment is a transient message for the user that expires after AckTTL.
type ShareOutcome struct {
	Sink           string        `json:"sink"`
	Status         ShareStatus   `json:"status"`
	Acknowledgment string        `json:"acknowledgment,omitempty"`
	AckTTL         time.Duration `json:"ack_ttl,omitempty"`
	Detail         string        `json:"detail,omitempty"`
}

// Session is the interactive state: two selectors and the displayed result.
type Session struct {
	SessionID      string            `json:"session_id"`
	SignA          *int              `json:"sign_a,omitempty"`
	SignB          *int              `json:"sign_b,omitempty"`
	Result         *PredictionResult `json:"result,omitempty"`
	PredictionUUID string            `json:"prediction_uuid,omitempty"` // history link for the shown result
	UpdatedAt      time.Time         `json:"updated_at"`
}

// GetPlainLabel returns a plain text class for a star rating.
func GetPlainLabel(stars int) string {
	switch {
	case stars >= HighScoreStars:
		return "High"
	case stars <= LowScoreStars:
		return "Low"
	default:
		return "Moderate"
	}
}

// EnrichResult attaches the two signs and the styling classification to a result.
func EnrichResult(a, b ZodiacSign, r PredictionResult) EnrichedResult {
	return EnrichedResult{
		SignA:            a,
		SignB:            b,
		Label:            GetPlainLabel(r.Stars),
		IsHighScore:      r.IsHighScore(),
		IsLowScore:       r.IsLowScore(),
		PredictionResult: r,
	}
}

// EnrichTiers adds rank and label class to a list of tiers.
func EnrichTiers(tiers []ScoreRange) []EnrichedTier {
	output := make([]EnrichedTier, len(tiers))
	for i, t := range tiers {
		output[i] = EnrichedTier{
			Rank:       i + 1,
			Label:      GetPlainLabel(t.Stars),
			ScoreRange: t,
		}
	}
	return output
}

// SessionView is a session with its selections resolved for display.
type SessionView struct {
	SessionName string          `json:"session_name"`
	SessionID   string          `json:"session_id"`
	SignA       *ZodiacSign     `json:"sign_a,omitempty"`
	SignB       *ZodiacSign     `json:"sign_b,omitempty"`
	Ready       bool            `json:"ready"`
	Result      *EnrichedResult `json:"result,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
