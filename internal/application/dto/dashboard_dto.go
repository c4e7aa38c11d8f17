package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts     int `json:"total_products"`
	TotalStockItems   int `json:"total_stock_items"`
	LowStockItems     int `json:"low_stock_items"` // lotes con cantidad < 10
	ExpiringSoon      int `json:"expiring_soon"`
	CriticalExpiring  int `json:"critical_expiring"`
	OpenQualityAlerts int `json:"open_quality_alerts"`

	Notices []Notice `json:"notices"`
}
