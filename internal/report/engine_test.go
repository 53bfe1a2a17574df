package report

import (
	"math"
	"reflect"
	"testing"
	"time"

	"sahel-backend/internal/models"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func rev(t *testing.T, day string, amount float64, category string) models.Revenue {
	t.Helper()
	return models.Revenue{Amount: amount, Date: date(t, day), Category: category}
}

func exp(t *testing.T, day string, amount float64, category string) models.Expense {
	t.Helper()
	return models.Expense{Amount: amount, Date: date(t, day), Category: category}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildAdvancedEmptyInput(t *testing.T) {
	r := BuildAdvanced(nil, nil, "")

	if r.TotalRevenues != 0 || r.TotalExpenses != 0 || r.NetProfit != 0 {
		t.Errorf("totals = %v/%v/%v, want all 0", r.TotalRevenues, r.TotalExpenses, r.NetProfit)
	}
	if r.ProfitMargin != 0 {
		t.Errorf("profitMargin = %v, want 0", r.ProfitMargin)
	}
	if len(r.RevenuesByCategory) != 0 || len(r.ExpensesByCategory) != 0 {
		t.Errorf("category lists not empty: %v / %v", r.RevenuesByCategory, r.ExpensesByCategory)
	}
	if len(r.MonthlyTrends) != 0 || len(r.WeeklyTrends) != 0 || len(r.CashFlow) != 0 {
		t.Errorf("trend lists not empty")
	}
	if len(r.TopCustomers) != 0 || len(r.TopProducts) != 0 {
		t.Errorf("rankings not empty")
	}
	if r.PerformanceMetrics.AverageTransactionValue != 0 {
		t.Errorf("averageTransactionValue = %v, want 0", r.PerformanceMetrics.AverageTransactionValue)
	}
	// comparison still lists every known branch, all zeros
	if len(r.BranchComparison) != len(models.KnownBranches) {
		t.Fatalf("branchComparison has %d entries, want %d", len(r.BranchComparison), len(models.KnownBranches))
	}
	for _, bt := range r.BranchComparison {
		if bt.Revenue != 0 || bt.Expense != 0 || bt.Transactions != 0 {
			t.Errorf("branch %s not zeroed: %+v", bt.Branch, bt)
		}
	}
}

func TestBuildSummaryEmptyInput(t *testing.T) {
	r := BuildSummary(nil, nil)
	if r.TotalRevenues != 0 || r.TotalExpenses != 0 || r.NetProfit != 0 {
		t.Errorf("totals = %v/%v/%v, want all 0", r.TotalRevenues, r.TotalExpenses, r.NetProfit)
	}
	if len(r.RevenuesByCategory) != 0 || len(r.MonthlyTrends) != 0 || len(r.TopRevenues) != 0 {
		t.Errorf("lists not empty on empty input")
	}
}

func TestSingleRevenue(t *testing.T) {
	revenues := []models.Revenue{rev(t, "2024-01-05", 100, "Sales")}

	r := BuildAdvanced(revenues, nil, "")

	if r.TotalRevenues != 100 || r.TotalExpenses != 0 {
		t.Errorf("totals = %v/%v, want 100/0", r.TotalRevenues, r.TotalExpenses)
	}
	if r.NetProfit != 100 {
		t.Errorf("netProfit = %v, want 100", r.NetProfit)
	}
	if r.ProfitMargin != 100 {
		t.Errorf("profitMargin = %v, want 100", r.ProfitMargin)
	}
}

func TestNetProfitIdentity(t *testing.T) {
	revenues := []models.Revenue{
		rev(t, "2024-01-01", 120.5, "Sales"),
		rev(t, "2024-02-01", 80.25, "Services"),
	}
	expenses := []models.Expense{
		exp(t, "2024-01-15", 300, "Rent"),
	}

	r := BuildAdvanced(revenues, expenses, "")
	if !almostEqual(r.NetProfit, r.TotalRevenues-r.TotalExpenses) {
		t.Errorf("netProfit = %v, want %v", r.NetProfit, r.TotalRevenues-r.TotalExpenses)
	}
}

func TestCategoryTotalsAndPercentages(t *testing.T) {
	revenues := []models.Revenue{
		rev(t, "2024-01-01", 100, "Sales"),
		rev(t, "2024-01-02", 50, "Services"),
		rev(t, "2024-01-03", 150, "Sales"),
		rev(t, "2024-01-04", 200, "Consulting"),
	}

	r := BuildAdvanced(revenues, nil, "")

	// first-seen order
	wantOrder := []string{"Sales", "Services", "Consulting"}
	if len(r.RevenuesByCategory) != len(wantOrder) {
		t.Fatalf("got %d categories, want %d", len(r.RevenuesByCategory), len(wantOrder))
	}
	var sum, pct float64
	for i, share := range r.RevenuesByCategory {
		if share.Category != wantOrder[i] {
			t.Errorf("category[%d] = %s, want %s", i, share.Category, wantOrder[i])
		}
		sum += share.Amount
		pct += share.Percentage
	}
	if !almostEqual(sum, r.TotalRevenues) {
		t.Errorf("category amounts sum to %v, want totalRevenues %v", sum, r.TotalRevenues)
	}
	if !almostEqual(pct, 100) {
		t.Errorf("percentages sum to %v, want 100", pct)
	}
	if r.RevenuesByCategory[0].Amount != 250 {
		t.Errorf("Sales amount = %v, want 250", r.RevenuesByCategory[0].Amount)
	}
}

func TestMonthlyTrendsGrowth(t *testing.T) {
	revenues := []models.Revenue{
		rev(t, "2024-01-10", 50, "A"),
		rev(t, "2024-02-10", 150, "A"),
	}

	r := BuildAdvanced(revenues, nil, "")

	want := []MonthlyTrend{
		{Month: "2024-01", Revenue: 50, Profit: 50, Growth: 0},
		{Month: "2024-02", Revenue: 150, Profit: 150, Growth: 200},
	}
	if !reflect.DeepEqual(r.MonthlyTrends, want) {
		t.Errorf("monthlyTrends = %+v, want %+v", r.MonthlyTrends, want)
	}
}

func TestMonthlyGrowthZeroRevenueMonth(t *testing.T) {
	// first month has only an expense; growth against a zero-revenue
	// month must stay 0, not Inf
	revenues := []models.Revenue{rev(t, "2024-02-10", 100, "A")}
	expenses := []models.Expense{exp(t, "2024-01-05", 40, "Rent")}

	r := BuildAdvanced(revenues, expenses, "")

	if len(r.MonthlyTrends) != 2 {
		t.Fatalf("got %d monthly buckets, want 2", len(r.MonthlyTrends))
	}
	if r.MonthlyTrends[1].Growth != 0 {
		t.Errorf("growth after zero-revenue month = %v, want 0", r.MonthlyTrends[1].Growth)
	}
	assertFinite(t, r)
}

func assertFinite(t *testing.T, r AdvancedReport) {
	t.Helper()
	check := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s is not finite: %v", name, v)
		}
	}
	check("profitMargin", r.ProfitMargin)
	check("revenueGrowth", r.PerformanceMetrics.RevenueGrowth)
	check("expenseGrowth", r.PerformanceMetrics.ExpenseGrowth)
	check("profitGrowth", r.PerformanceMetrics.ProfitGrowth)
	check("averageTransactionValue", r.PerformanceMetrics.AverageTransactionValue)
	for _, m := range r.MonthlyTrends {
		check("monthly growth "+m.Month, m.Growth)
	}
	for _, share := range r.RevenuesByCategory {
		check("percentage "+share.Category, share.Percentage)
	}
}

func TestIdempotence(t *testing.T) {
	revenues := []models.Revenue{
		{Amount: 100, Date: date(t, "2024-01-05"), Category: "Sales", Branch: models.BranchLaban, CustomerName: "شركة النور"},
		{Amount: 75, Date: date(t, "2024-02-01"), Category: "Services", Branch: models.BranchTuwaiq},
	}
	expenses := []models.Expense{
		{Amount: 30, Date: date(t, "2024-01-20"), Category: "Rent", Branch: models.BranchLaban},
	}

	first := BuildAdvanced(revenues, expenses, "")
	second := BuildAdvanced(revenues, expenses, "")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reports differ across identical calls")
	}
}

func TestWeeklyTrendsTruncatedToEight(t *testing.T) {
	// one revenue per week over 10 consecutive weeks
	var revenues []models.Revenue
	start := date(t, "2024-01-01") // a Monday
	for i := 0; i < 10; i++ {
		revenues = append(revenues, models.Revenue{
			Amount:   float64(10 * (i + 1)),
			Date:     start.AddDate(0, 0, 7*i),
			Category: "Sales",
		})
	}

	r := BuildAdvanced(revenues, nil, "")

	if len(r.WeeklyTrends) != weeklyTrendWindow {
		t.Fatalf("got %d weekly buckets, want %d", len(r.WeeklyTrends), weeklyTrendWindow)
	}
	// most recent 8 of the 10 weeks survive, in ascending order
	if r.WeeklyTrends[0].Revenue != 30 {
		t.Errorf("first kept week revenue = %v, want 30", r.WeeklyTrends[0].Revenue)
	}
	if r.WeeklyTrends[len(r.WeeklyTrends)-1].Revenue != 100 {
		t.Errorf("last kept week revenue = %v, want 100", r.WeeklyTrends[len(r.WeeklyTrends)-1].Revenue)
	}
	for i := 1; i < len(r.WeeklyTrends); i++ {
		if r.WeeklyTrends[i-1].Week >= r.WeeklyTrends[i].Week {
			t.Errorf("weeks not ascending: %s then %s", r.WeeklyTrends[i-1].Week, r.WeeklyTrends[i].Week)
		}
	}
}

func TestWeekKeyIsISO(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2024-01-01", "2024-W01"},
		{"2023-01-01", "2022-W52"}, // Jan 1 2023 is a Sunday, ISO week of prior year
		{"2024-12-30", "2025-W01"},
	}
	for _, tt := range tests {
		if got := weekKey(date(t, tt.day)); got != tt.want {
			t.Errorf("weekKey(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestBranchFilterAndComparison(t *testing.T) {
	revenues := []models.Revenue{
		{Amount: 100, Date: date(t, "2024-01-05"), Category: "Sales", Branch: models.BranchLaban},
		{Amount: 200, Date: date(t, "2024-01-06"), Category: "Sales", Branch: models.BranchTuwaiq},
	}
	expenses := []models.Expense{
		{Amount: 40, Date: date(t, "2024-01-07"), Category: "Rent", Branch: models.BranchLaban},
		{Amount: 60, Date: date(t, "2024-01-08"), Category: "Rent", Branch: models.BranchTuwaiq},
	}

	r := BuildAdvanced(revenues, expenses, models.BranchLaban)

	// totals reflect only the filtered branch
	if r.TotalRevenues != 100 || r.TotalExpenses != 40 {
		t.Errorf("filtered totals = %v/%v, want 100/40", r.TotalRevenues, r.TotalExpenses)
	}
	if r.TransactionCount != 2 {
		t.Errorf("transactionCount = %d, want 2", r.TransactionCount)
	}

	// comparison still covers both branches with their own figures
	if len(r.BranchComparison) != 2 {
		t.Fatalf("branchComparison has %d entries, want 2", len(r.BranchComparison))
	}
	byBranch := map[models.Branch]BranchTotals{}
	for _, bt := range r.BranchComparison {
		byBranch[bt.Branch] = bt
	}
	laban := byBranch[models.BranchLaban]
	tuwaiq := byBranch[models.BranchTuwaiq]
	if laban.Revenue != 100 || laban.Expense != 40 || laban.Transactions != 2 {
		t.Errorf("laban totals = %+v", laban)
	}
	if tuwaiq.Revenue != 200 || tuwaiq.Expense != 60 || tuwaiq.Transactions != 2 {
		t.Errorf("tuwaiq totals = %+v", tuwaiq)
	}
}

func TestTopCustomers(t *testing.T) {
	var revenues []models.Revenue
	// 12 distinct customers with ascending revenue
	for i := 1; i <= 12; i++ {
		revenues = append(revenues, models.Revenue{
			Amount:       float64(i * 10),
			Date:         date(t, "2024-01-15"),
			Category:     "Sales",
			CustomerName: string(rune('A' + i - 1)),
		})
	}
	// unnamed customer with two transactions, second one later
	revenues = append(revenues,
		models.Revenue{Amount: 500, Date: date(t, "2024-01-10"), Category: "Sales"},
		models.Revenue{Amount: 500, Date: date(t, "2024-03-01"), Category: "Sales"},
	)

	r := BuildAdvanced(revenues, nil, "")

	if len(r.TopCustomers) != topRankSize {
		t.Fatalf("got %d top customers, want %d", len(r.TopCustomers), topRankSize)
	}
	top := r.TopCustomers[0]
	if top.Name != defaultCustomerLabel {
		t.Errorf("top customer name = %q, want default label", top.Name)
	}
	if top.Revenue != 1000 || top.Transactions != 2 {
		t.Errorf("top customer = %+v, want revenue 1000 over 2 transactions", top)
	}
	if top.LastTransaction != "2024-03-01" {
		t.Errorf("lastTransaction = %s, want 2024-03-01", top.LastTransaction)
	}
	for i := 1; i < len(r.TopCustomers); i++ {
		if r.TopCustomers[i-1].Revenue < r.TopCustomers[i].Revenue {
			t.Errorf("topCustomers not descending at %d", i)
		}
	}
}

func TestTopProductsDefaults(t *testing.T) {
	qty := 3
	profit := 42.0
	revenues := []models.Revenue{
		// explicit quantity and profit
		{Amount: 100, Date: date(t, "2024-01-05"), Category: "Sales", ProductName: "عسل", Quantity: &qty, Profit: &profit},
		// defaults: quantity 1, profit 30% of amount
		{Amount: 200, Date: date(t, "2024-01-06"), Category: "Sales", ProductName: "عسل"},
		// unnamed product
		{Amount: 50, Date: date(t, "2024-01-07"), Category: "Sales"},
	}

	r := BuildAdvanced(revenues, nil, "")

	if len(r.TopProducts) != 2 {
		t.Fatalf("got %d products, want 2", len(r.TopProducts))
	}
	honey := r.TopProducts[0]
	if honey.Name != "عسل" {
		t.Fatalf("top product = %q", honey.Name)
	}
	if honey.Revenue != 300 {
		t.Errorf("revenue = %v, want 300", honey.Revenue)
	}
	if honey.Quantity != 4 {
		t.Errorf("quantity = %v, want 4", honey.Quantity)
	}
	if !almostEqual(honey.Profit, 42+200*0.3) {
		t.Errorf("profit = %v, want %v", honey.Profit, 42+200*0.3)
	}
	if r.TopProducts[1].Name != defaultProductLabel {
		t.Errorf("unnamed product label = %q, want default", r.TopProducts[1].Name)
	}
}

func TestCashFlow(t *testing.T) {
	revenues := []models.Revenue{
		rev(t, "2024-01-02", 100, "Sales"),
		rev(t, "2024-01-01", 50, "Sales"),
	}
	expenses := []models.Expense{
		exp(t, "2024-01-02", 30, "Rent"),
	}

	r := BuildAdvanced(revenues, expenses, "")

	want := []CashFlowEntry{
		{Date: "2024-01-01", Inflow: 50, Outflow: 0, Balance: 50},
		{Date: "2024-01-02", Inflow: 100, Outflow: 30, Balance: 70},
	}
	if !reflect.DeepEqual(r.CashFlow, want) {
		t.Errorf("cashFlow = %+v, want %+v", r.CashFlow, want)
	}
}

func TestPerformanceMetrics(t *testing.T) {
	revenues := []models.Revenue{
		rev(t, "2024-01-10", 100, "A"),
		rev(t, "2024-03-10", 150, "A"),
	}
	expenses := []models.Expense{
		exp(t, "2024-01-10", 50, "Rent"),
		exp(t, "2024-03-10", 100, "Rent"),
	}

	r := BuildAdvanced(revenues, expenses, "")
	m := r.PerformanceMetrics

	if !almostEqual(m.RevenueGrowth, 50) {
		t.Errorf("revenueGrowth = %v, want 50", m.RevenueGrowth)
	}
	if !almostEqual(m.ExpenseGrowth, 100) {
		t.Errorf("expenseGrowth = %v, want 100", m.ExpenseGrowth)
	}
	// first month profit 50, last month profit 50 -> 0%
	if !almostEqual(m.ProfitGrowth, 0) {
		t.Errorf("profitGrowth = %v, want 0", m.ProfitGrowth)
	}
	wantAvg := (250.0 + 150.0) / 4.0
	if !almostEqual(m.AverageTransactionValue, wantAvg) {
		t.Errorf("averageTransactionValue = %v, want %v", m.AverageTransactionValue, wantAvg)
	}
	if m.CustomerRetention != placeholderCustomerRetention {
		t.Errorf("customerRetention = %v, want placeholder %v", m.CustomerRetention, placeholderCustomerRetention)
	}
	if m.InventoryTurnover != placeholderInventoryTurnover {
		t.Errorf("inventoryTurnover = %v, want placeholder %v", m.InventoryTurnover, placeholderInventoryTurnover)
	}
}

func TestProfitGrowthZeroFirstMonth(t *testing.T) {
	// first month profit is exactly 0: denominator falls back to 1
	revenues := []models.Revenue{
		rev(t, "2024-01-10", 50, "A"),
		rev(t, "2024-02-10", 80, "A"),
	}
	expenses := []models.Expense{
		exp(t, "2024-01-10", 50, "Rent"),
	}

	r := BuildAdvanced(revenues, expenses, "")

	// last profit 80, first profit 0 -> (80-0)/1*100
	if !almostEqual(r.PerformanceMetrics.ProfitGrowth, 8000) {
		t.Errorf("profitGrowth = %v, want 8000", r.PerformanceMetrics.ProfitGrowth)
	}
	assertFinite(t, r)
}

func TestBuildSummaryTopEntries(t *testing.T) {
	revenues := []models.Revenue{
		{Amount: 10, Date: date(t, "2024-01-01"), Category: "A", Description: "صغير"},
		{Amount: 90, Date: date(t, "2024-01-02"), Category: "A", Description: "كبير"},
		{Amount: 50, Date: date(t, "2024-01-03"), Category: "A"},
		{Amount: 70, Date: date(t, "2024-01-04"), Category: "A", Description: "متوسط"},
		{Amount: 20, Date: date(t, "2024-01-05"), Category: "A", Description: "x"},
		{Amount: 30, Date: date(t, "2024-01-06"), Category: "A", Description: "y"},
	}

	r := BuildSummary(revenues, nil)

	if len(r.TopRevenues) != topEntrySize {
		t.Fatalf("got %d top revenues, want %d", len(r.TopRevenues), topEntrySize)
	}
	if r.TopRevenues[0].Description != "كبير" || r.TopRevenues[0].Amount != 90 {
		t.Errorf("top entry = %+v", r.TopRevenues[0])
	}
	// missing description falls back to the default label
	if r.TopRevenues[2].Description != defaultDescriptionLabel {
		t.Errorf("entry without description = %q, want default label", r.TopRevenues[2].Description)
	}
	for i := 1; i < len(r.TopRevenues); i++ {
		if r.TopRevenues[i-1].Amount < r.TopRevenues[i].Amount {
			t.Errorf("topRevenues not descending at %d", i)
		}
	}
}

func TestSummaryMonthlyTrendsSorted(t *testing.T) {
	revenues := []models.Revenue{
		rev(t, "2024-03-01", 10, "A"),
		rev(t, "2024-01-01", 20, "A"),
	}
	expenses := []models.Expense{
		exp(t, "2024-02-01", 5, "Rent"),
	}

	r := BuildSummary(revenues, expenses)

	want := []SummaryTrend{
		{Month: "2024-01", Revenue: 20},
		{Month: "2024-02", Expense: 5},
		{Month: "2024-03", Revenue: 10},
	}
	if !reflect.DeepEqual(r.MonthlyTrends, want) {
		t.Errorf("monthlyTrends = %+v, want %+v", r.MonthlyTrends, want)
	}
}
