package client

import "time"

// SignupInput is the account-creation payload.
type SignupInput struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	BusinessName string `json:"business_name"`
	Industry     string `json:"industry"`
	Password     string `json:"password"`
}

// AnalysisResult holds the computed financial metrics for the account.
type AnalysisResult struct {
	Metrics map[string]any `json:"metrics"`
}

// Report is a stored analysis run.
type Report struct {
	ID         int            `json:"id"`
	ReportType string         `json:"report_type"`
	Summary    string         `json:"summary"`
	Metrics    map[string]any `json:"metrics"`
	AIInsights any            `json:"ai_insights"`
	CreatedAt  *time.Time     `json:"created_at"`
}

// ForecastResult maps month labels to projected revenue.
type ForecastResult struct {
	Forecast map[string]float64 `json:"forecast"`
	ReportID int                `json:"report_id"`
}

// ComplianceResult is the GST/tax compliance snapshot.
type ComplianceResult struct {
	GSTFilingStatus string `json:"gst_filing_status"`
	ComplianceRisk  string `json:"compliance_risk"`
	Notes           string `json:"notes"`
	ReportID        int    `json:"report_id"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type insightsResponse struct {
	Insights string `json:"insights"`
}
