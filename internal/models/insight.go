package models

// InsightType is the severity of a behavioral finding.
type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
)

// Insight is a behavioral pattern found in the trade history. It is
// derived on demand and never stored.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Count       int         `json:"count"`
}
