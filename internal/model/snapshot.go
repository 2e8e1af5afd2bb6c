package model

import "time"

// StockInfo is static reference data about a listed instrument.
type StockInfo struct {
	Symbol    string  `yaml:"symbol" json:"symbol" validate:"required"`
	Name      string  `yaml:"name" json:"name"`
	Sector    string  `yaml:"sector" json:"sector"`
	MarketCap float64 `yaml:"market_cap" json:"marketCap"` // billions USD
	PE        float64 `yaml:"pe" json:"pe"`
}

// Assessment classifies indicator values into display statuses.
type Assessment struct {
	RSIStatus  string `json:"rsiStatus"`
	MACDStatus string `json:"macdStatus"`
	RiskLevel  string `json:"riskLevel"`
}

// StockSnapshot is everything the dashboard renders for one symbol after one refresh.
type StockSnapshot struct {
	StockInfo
	Price         float64          `json:"price"`
	Change        float64          `json:"change"`
	ChangePercent float64          `json:"changePercent"`
	Volume        int64            `json:"volume"`
	High30        float64          `json:"high30"`
	Low30         float64          `json:"low30"`
	AvgPrice      float64          `json:"avgPrice"`
	TotalVolume   int64            `json:"totalVolume"`
	StartDate     time.Time        `json:"startDate"`
	EndDate       time.Time        `json:"endDate"`
	Indicators    *IndicatorResult `json:"indicators"`
	Assessment    *Assessment      `json:"assessment"`
	Bars          []PriceBar       `json:"bars"`
	Source        string           `json:"source"`
	RunID         string           `json:"runId,omitempty"`
	FetchedAt     time.Time        `json:"fetchedAt"`
}
