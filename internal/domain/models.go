package domain

import "time"

// Risk levels as supplied by the prediction service. The dashboard
// renders these verbatim and never rebuckets day counts itself.
const (
	RiskCritical = "critical"
	RiskHigh     = "high"
	RiskMedium   = "medium"
	RiskLow      = "low"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// CSV file types accepted by the prediction service.
const (
	FileSupplies    = "supplies"
	FileTemperature = "temperature"
	FileWeather     = "weather"
	FileFires       = "fires"
)

// Prediction is one (pile, observation date) forecast. Dates arrive as
// ISO strings and stay strings: a malformed date is the widget's
// problem to flag, not ours to reject.
type Prediction struct {
	PileID                   int                `json:"pile_id"`
	Stockyard                *int               `json:"stockyard"`
	CoalGrade                *string            `json:"coal_grade"`
	ObservationDate          string             `json:"observation_date"`
	PredictedFireDate        string             `json:"predicted_fire_date"`
	PredictedDaysToFire      float64            `json:"predicted_days_to_fire"`
	PredictedDaysToFireRound int                `json:"predicted_days_to_fire_rounded"`
	Confidence               string             `json:"confidence"`
	RiskLevel                string             `json:"risk_level"`
	Features                 map[string]float64 `json:"features,omitempty"`
}

// DateRange describes the span of the uploaded dataset; secondary
// views use it to pick their initial visible window.
type DateRange struct {
	DataStartDate string `json:"data_start_date"`
	DataEndDate   string `json:"data_end_date"`
	Years         []int  `json:"years"`
}

type PredictionResponse struct {
	PredictionID      string       `json:"prediction_id"`
	Status            string       `json:"status"`
	Predictions       []Prediction `json:"predictions"`
	TotalPiles        int          `json:"total_piles"`
	HighRiskCount     int          `json:"high_risk_count"`
	CriticalRiskCount int          `json:"critical_risk_count"`
	CreatedAt         time.Time    `json:"created_at"`
	ProcessingTimeMS  *float64     `json:"processing_time_ms"`
	DateRange         *DateRange   `json:"date_range"`
}

type UploadResponse struct {
	UploadID         string   `json:"upload_id"`
	FileType         string   `json:"file_type"`
	Filename         string   `json:"filename"`
	RowCount         int      `json:"row_count"`
	ValidationStatus string   `json:"validation_status"`
	Errors           []string `json:"errors"`
	Warnings         []string `json:"warnings"`
}

// MatchedPrediction links one prediction to the closest real fire
// event for the same pile. IsMatch is true within the service's ±2 day
// tolerance.
type MatchedPrediction struct {
	PileID            int     `json:"pile_id"`
	PredictedFireDate string  `json:"predicted_fire_date"`
	RealFireDate      string  `json:"real_fire_date"`
	DaysDifference    int     `json:"days_difference"`
	AbsDaysDifference int     `json:"abs_days_difference"`
	IsMatch           bool    `json:"is_match"`
	Stockyard         *int    `json:"stockyard"`
	CoalGrade         *string `json:"coal_grade"`
}

type EvaluationResult struct {
	EvaluationID       string              `json:"evaluation_id"`
	MAE                float64             `json:"mae"`
	RMSE               *float64            `json:"rmse"`
	AccuracyPM1        float64             `json:"accuracy_pm1"`
	AccuracyPM2        float64             `json:"accuracy_pm2"`
	AccuracyPM3        float64             `json:"accuracy_pm3"`
	TotalPredictions   int                 `json:"total_predictions"`
	CorrectPM2         int                 `json:"correct_pm2"`
	MatchedPredictions []MatchedPrediction `json:"matched_predictions"`
}

type ModelInfo struct {
	ModelType           string                 `json:"model_type"`
	FeatureCount        int                    `json:"feature_count"`
	NumericFeatures     []string               `json:"numeric_features"`
	CategoricalFeatures []string               `json:"categorical_features"`
	Metrics             map[string]interface{} `json:"metrics"`
}

type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Version     string `json:"version"`
}

// ParseDate accepts the date layouts the service is known to emit.
// Callers treat an error as "date unknown", never as a fatal condition.
func ParseDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var err error
	var t time.Time
	for _, layout := range layouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
