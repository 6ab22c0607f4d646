package model

import "github.com/google/uuid"

const DefaultForecastDays = 30

type ForecastResult struct {
	ProductID       uuid.UUID `json:"product_id"`
	PredictedDemand float64   `json:"predicted_demand"`
	DaysAhead       int       `json:"days_ahead"`
	SampleSize      int       `json:"sample_size"`
	Sufficient      bool      `json:"sufficient"`
	Message         string    `json:"message"`
}

type DemandAlert struct {
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	CurrentStock    int       `json:"current_stock"`
	PredictedDemand float64   `json:"predicted_demand"`
	Shortfall       float64   `json:"shortfall"`
}

type ReorderSuggestion struct {
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	CurrentStock      int       `json:"current_stock"`
	MinStock          int       `json:"min_stock"`
	SuggestedQuantity int       `json:"suggested_quantity"`
}
