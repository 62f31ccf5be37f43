package analytics

import (
	"github.com/google/uuid"
)

// BusinessMetrics is one business's aggregated view.
//
// The windowed figures (revenue, expenses, net profit, transfer totals,
// personal expenses) honor the requested date range. CashBalance never does:
// it is the all-time running total of signed transaction amounts minus
// all-time personal expenses. Net profit for a period and cash balance are
// different concepts and must not be conflated.
type BusinessMetrics struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalExpenses      float64 `json:"totalExpenses"`
	NetProfit          float64 `json:"netProfit"`
	TransferredOut     float64 `json:"transferredOut"`
	ReceivedIn         float64 `json:"receivedIn"`
	CashBalance        float64 `json:"cashBalance"`
	PersonalExpenses   float64 `json:"personalExpenses"`
	TotalInvestments   float64 `json:"totalInvestments"`
	SettledInvestments float64 `json:"settledInvestments"`
}

// BusinessView pairs a business with its metrics in a dashboard.
type BusinessView struct {
	BusinessID uuid.UUID       `json:"business_id"`
	Name       string          `json:"name"`
	Metrics    BusinessMetrics `json:"metrics"`
}

// Consolidated sums the windowed figures across all dashboard businesses.
// TotalTransfers is the amount moved from the first listed business to the
// second within the window.
type Consolidated struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalExpenses  float64 `json:"totalExpenses"`
	NetProfit      float64 `json:"netProfit"`
	TotalTransfers float64 `json:"totalTransfers"`
}

// Dashboard is the cross-business consolidated view.
type Dashboard struct {
	Businesses   []BusinessView `json:"businesses"`
	Consolidated Consolidated   `json:"consolidated"`
}
