package report

type AlertType string

const (
	AlertWarning AlertType = "warning"
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
	AlertInfo    AlertType = "info"
)

type AlertTrend string

const (
	TrendUp   AlertTrend = "up"
	TrendDown AlertTrend = "down"
)

type Alert struct {
	Type    AlertType  `json:"type"`
	Message string     `json:"message"`
	Value   *float64   `json:"value,omitempty"`
	Trend   AlertTrend `json:"trend,omitempty"`
}

// GenerateAlerts inspects a computed report and derives qualitative
// signals. Rules are independent and evaluated in a fixed order, so the
// resulting slice is deterministic. The report is never mutated.
func GenerateAlerts(r AdvancedReport) []Alert {
	alerts := make([]Alert, 0)

	if r.ProfitMargin < 10 {
		alert := Alert{
			Type:    AlertWarning,
			Message: "هامش الربح منخفض",
			Value:   ptr(r.ProfitMargin),
		}
		if r.ProfitMargin < 5 {
			alert.Trend = TrendDown
		}
		alerts = append(alerts, alert)
	}

	if r.PerformanceMetrics.RevenueGrowth < 0 {
		alerts = append(alerts, Alert{
			Type:    AlertError,
			Message: "انخفاض في الإيرادات",
			Value:   ptr(r.PerformanceMetrics.RevenueGrowth),
			Trend:   TrendDown,
		})
	}

	if r.PerformanceMetrics.ExpenseGrowth > 20 {
		alerts = append(alerts, Alert{
			Type:    AlertWarning,
			Message: "زيادة كبيرة في المصروفات",
			Value:   ptr(r.PerformanceMetrics.ExpenseGrowth),
			Trend:   TrendUp,
		})
	}

	if r.NetProfit > 0 {
		alerts = append(alerts, Alert{
			Type:    AlertSuccess,
			Message: "الأرباح إيجابية",
			Value:   ptr(r.NetProfit),
			Trend:   TrendUp,
		})
	}

	if r.TransactionCount < 50 {
		alerts = append(alerts, Alert{
			Type:    AlertInfo,
			Message: "عدد المعاملات منخفض",
			Value:   ptr(float64(r.TransactionCount)),
		})
	}

	return alerts
}

func ptr(v float64) *float64 { return &v }
