package models

// GrowthPoint is one point of a growth-over-time series
type GrowthPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CombinedGrowthPoint pairs the dataset and project counts of one date,
// the shape the growth line chart plots
type CombinedGrowthPoint struct {
	Date         string `json:"date"`
	Count        int    `json:"count"`
	ProjectCount int    `json:"projectCount"`
}

// DistributionSlice is one slice of the datasets/projects pie chart
type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// DashboardData is everything the dashboard page renders
type DashboardData struct {
	DatasetCount   int                   `json:"datasetCount"`
	ProjectCount   int                   `json:"projectCount"`
	DatasetGrowth  []GrowthPoint         `json:"datasetGrowth"`
	ProjectGrowth  []GrowthPoint         `json:"projectGrowth"`
	CombinedGrowth []CombinedGrowthPoint `json:"combinedGrowth"`
	Distribution   []DistributionSlice   `json:"distribution"`
}
