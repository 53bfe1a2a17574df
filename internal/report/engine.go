package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"sahel-backend/internal/models"
)

const (
	defaultCustomerLabel    = "عميل غير معروف"
	defaultProductLabel     = "منتج غير معروف"
	defaultDescriptionLabel = "بدون وصف"

	weeklyTrendWindow = 8
	topRankSize       = 10
	topEntrySize      = 5

	// Profit recorded on a revenue defaults to 30% of its amount.
	defaultProfitRate = 0.3

	// Not computed from data yet. Customer identity and inventory
	// tracking are needed first; until then these are fixed placeholders.
	placeholderCustomerRetention = 85.0
	placeholderInventoryTurnover = 12.5
)

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type SummaryTrend struct {
	Month   string  `json:"month"` // canonical YYYY-MM, localized by the client
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
}

type TopEntry struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

type MonthlyTrend struct {
	Month   string  `json:"month"` // canonical YYYY-MM
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
	Growth  float64 `json:"growth"` // revenue change vs previous month, percent
}

type WeeklyTrend struct {
	Week    string  `json:"week"` // ISO week, YYYY-Www
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

type BranchTotals struct {
	Branch       models.Branch `json:"branch"`
	Revenue      float64       `json:"revenue"`
	Expense      float64       `json:"expense"`
	Profit       float64       `json:"profit"`
	Transactions int           `json:"transactions"`
}

type CustomerRank struct {
	Name            string  `json:"name"`
	Revenue         float64 `json:"revenue"`
	Transactions    int     `json:"transactions"`
	LastTransaction string  `json:"lastTransaction"` // YYYY-MM-DD
}

type ProductRank struct {
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	Quantity int     `json:"quantity"`
	Profit   float64 `json:"profit"`
}

type CashFlowEntry struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Balance float64 `json:"balance"`
}

type PerformanceMetrics struct {
	RevenueGrowth           float64 `json:"revenueGrowth"`
	ExpenseGrowth           float64 `json:"expenseGrowth"`
	ProfitGrowth            float64 `json:"profitGrowth"`
	AverageTransactionValue float64 `json:"averageTransactionValue"`
	CustomerRetention       float64 `json:"customerRetention"`
	InventoryTurnover       float64 `json:"inventoryTurnover"`
}

type SummaryReport struct {
	TotalRevenues      float64          `json:"totalRevenues"`
	TotalExpenses      float64          `json:"totalExpenses"`
	NetProfit          float64          `json:"netProfit"`
	RevenuesByCategory []CategoryAmount `json:"revenuesByCategory"`
	ExpensesByCategory []CategoryAmount `json:"expensesByCategory"`
	MonthlyTrends      []SummaryTrend   `json:"monthlyTrends"`
	TopRevenues        []TopEntry       `json:"topRevenues"`
	TopExpenses        []TopEntry       `json:"topExpenses"`
}

type AdvancedReport struct {
	TotalRevenues      float64            `json:"totalRevenues"`
	TotalExpenses      float64            `json:"totalExpenses"`
	NetProfit          float64            `json:"netProfit"`
	ProfitMargin       float64            `json:"profitMargin"`
	RevenuesByCategory []CategoryShare    `json:"revenuesByCategory"`
	ExpensesByCategory []CategoryShare    `json:"expensesByCategory"`
	MonthlyTrends      []MonthlyTrend     `json:"monthlyTrends"`
	WeeklyTrends       []WeeklyTrend      `json:"weeklyTrends"`
	BranchComparison   []BranchTotals     `json:"branchComparison"`
	TopCustomers       []CustomerRank     `json:"topCustomers"`
	TopProducts        []ProductRank      `json:"topProducts"`
	CashFlow           []CashFlowEntry    `json:"cashFlow"`
	PerformanceMetrics PerformanceMetrics `json:"performanceMetrics"`
	Alerts             []Alert            `json:"alerts"`

	// TransactionCount is countRevenues+countExpenses of the filtered
	// sets; the alert rules need it but the client does not.
	TransactionCount int `json:"-"`
}

// BuildSummary computes the basic financial report from the given
// record sets. Pure: no I/O, no shared state, identical input yields
// identical output.
func BuildSummary(revenues []models.Revenue, expenses []models.Expense) SummaryReport {
	totalRevenues := sumRevenues(revenues)
	totalExpenses := sumExpenses(expenses)

	report := SummaryReport{
		TotalRevenues:      totalRevenues,
		TotalExpenses:      totalExpenses,
		NetProfit:          totalRevenues - totalExpenses,
		RevenuesByCategory: revenueCategories(revenues),
		ExpensesByCategory: expenseCategories(expenses),
		MonthlyTrends:      summaryTrends(revenues, expenses),
		TopRevenues:        topRevenueEntries(revenues),
		TopExpenses:        topExpenseEntries(expenses),
	}
	return report
}

// BuildAdvanced computes the full report. revenues and expenses must
// already be date-windowed; the branch filter is applied here so that
// branch comparison can still see all branches (its whole point is to
// compare them). branch == "" means no branch filter.
func BuildAdvanced(revenues []models.Revenue, expenses []models.Expense, branch models.Branch) AdvancedReport {
	// Comparison always runs over the unfiltered window.
	comparison := branchComparison(revenues, expenses)

	if branch != "" {
		revenues = filterRevenuesByBranch(revenues, branch)
		expenses = filterExpensesByBranch(expenses, branch)
	}

	totalRevenues := sumRevenues(revenues)
	totalExpenses := sumExpenses(expenses)
	netProfit := totalRevenues - totalExpenses

	profitMargin := 0.0
	if totalRevenues > 0 {
		profitMargin = netProfit / totalRevenues * 100
	}

	monthly := monthlyTrends(revenues, expenses)
	transactionCount := len(revenues) + len(expenses)

	report := AdvancedReport{
		TotalRevenues:      totalRevenues,
		TotalExpenses:      totalExpenses,
		NetProfit:          netProfit,
		ProfitMargin:       profitMargin,
		RevenuesByCategory: categoryShares(revenueCategories(revenues), totalRevenues),
		ExpensesByCategory: categoryShares(expenseCategories(expenses), totalExpenses),
		MonthlyTrends:      monthly,
		WeeklyTrends:       weeklyTrends(revenues, expenses),
		BranchComparison:   comparison,
		TopCustomers:       topCustomers(revenues),
		TopProducts:        topProducts(revenues),
		CashFlow:           cashFlow(revenues, expenses),
		PerformanceMetrics: performanceMetrics(monthly, totalRevenues, totalExpenses, transactionCount),
		TransactionCount:   transactionCount,
	}
	report.Alerts = GenerateAlerts(report)
	return report
}

// -------------------------
// Totals and categories
// -------------------------

func sumRevenues(revenues []models.Revenue) float64 {
	var total float64
	for _, r := range revenues {
		total += r.Amount
	}
	return total
}

func sumExpenses(expenses []models.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// revenueCategories groups amounts by category in first-seen order.
func revenueCategories(revenues []models.Revenue) []CategoryAmount {
	index := make(map[string]int)
	out := make([]CategoryAmount, 0)
	for _, r := range revenues {
		if i, ok := index[r.Category]; ok {
			out[i].Amount += r.Amount
			continue
		}
		index[r.Category] = len(out)
		out = append(out, CategoryAmount{Category: r.Category, Amount: r.Amount})
	}
	return out
}

func expenseCategories(expenses []models.Expense) []CategoryAmount {
	index := make(map[string]int)
	out := make([]CategoryAmount, 0)
	for _, e := range expenses {
		if i, ok := index[e.Category]; ok {
			out[i].Amount += e.Amount
			continue
		}
		index[e.Category] = len(out)
		out = append(out, CategoryAmount{Category: e.Category, Amount: e.Amount})
	}
	return out
}

func categoryShares(categories []CategoryAmount, total float64) []CategoryShare {
	out := make([]CategoryShare, 0, len(categories))
	for _, cat := range categories {
		share := CategoryShare{Category: cat.Category, Amount: cat.Amount}
		if total > 0 {
			share.Percentage = cat.Amount / total * 100
		}
		out = append(out, share)
	}
	return out
}

// -------------------------
// Time buckets
// -------------------------

func monthKey(t time.Time) string { return t.Format("2006-01") }
func dayKey(t time.Time) string   { return t.Format("2006-01-02") }

// weekKey uses ISO-8601 week numbering. Zero-padded so that lexical
// order equals chronological order within a year.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func summaryTrends(revenues []models.Revenue, expenses []models.Expense) []SummaryTrend {
	buckets := make(map[string]*SummaryTrend)
	for _, r := range revenues {
		key := monthKey(r.Date)
		if buckets[key] == nil {
			buckets[key] = &SummaryTrend{Month: key}
		}
		buckets[key].Revenue += r.Amount
	}
	for _, e := range expenses {
		key := monthKey(e.Date)
		if buckets[key] == nil {
			buckets[key] = &SummaryTrend{Month: key}
		}
		buckets[key].Expense += e.Amount
	}

	keys := sortedKeys(buckets)
	out := make([]SummaryTrend, 0, len(keys))
	for _, key := range keys {
		out = append(out, *buckets[key])
	}
	return out
}

func monthlyTrends(revenues []models.Revenue, expenses []models.Expense) []MonthlyTrend {
	buckets := make(map[string]*MonthlyTrend)
	for _, r := range revenues {
		key := monthKey(r.Date)
		if buckets[key] == nil {
			buckets[key] = &MonthlyTrend{Month: key}
		}
		buckets[key].Revenue += r.Amount
	}
	for _, e := range expenses {
		key := monthKey(e.Date)
		if buckets[key] == nil {
			buckets[key] = &MonthlyTrend{Month: key}
		}
		buckets[key].Expense += e.Amount
	}

	keys := sortedKeys(buckets)
	out := make([]MonthlyTrend, 0, len(keys))
	for _, key := range keys {
		bucket := *buckets[key]
		bucket.Profit = bucket.Revenue - bucket.Expense
		out = append(out, bucket)
	}

	// growth[0] stays 0; a zero previous month also yields 0
	for i := 1; i < len(out); i++ {
		out[i].Growth = percentChange(out[i].Revenue, out[i-1].Revenue)
	}
	return out
}

func weeklyTrends(revenues []models.Revenue, expenses []models.Expense) []WeeklyTrend {
	buckets := make(map[string]*WeeklyTrend)
	for _, r := range revenues {
		key := weekKey(r.Date)
		if buckets[key] == nil {
			buckets[key] = &WeeklyTrend{Week: key}
		}
		buckets[key].Revenue += r.Amount
	}
	for _, e := range expenses {
		key := weekKey(e.Date)
		if buckets[key] == nil {
			buckets[key] = &WeeklyTrend{Week: key}
		}
		buckets[key].Expense += e.Amount
	}

	keys := sortedKeys(buckets)
	out := make([]WeeklyTrend, 0, len(keys))
	for _, key := range keys {
		bucket := *buckets[key]
		bucket.Profit = bucket.Revenue - bucket.Expense
		out = append(out, bucket)
	}

	if len(out) > weeklyTrendWindow {
		out = out[len(out)-weeklyTrendWindow:]
	}
	return out
}

func cashFlow(revenues []models.Revenue, expenses []models.Expense) []CashFlowEntry {
	buckets := make(map[string]*CashFlowEntry)
	for _, r := range revenues {
		key := dayKey(r.Date)
		if buckets[key] == nil {
			buckets[key] = &CashFlowEntry{Date: key}
		}
		buckets[key].Inflow += r.Amount
	}
	for _, e := range expenses {
		key := dayKey(e.Date)
		if buckets[key] == nil {
			buckets[key] = &CashFlowEntry{Date: key}
		}
		buckets[key].Outflow += e.Amount
	}

	keys := sortedKeys(buckets)
	out := make([]CashFlowEntry, 0, len(keys))
	for _, key := range keys {
		bucket := *buckets[key]
		bucket.Balance = bucket.Inflow - bucket.Outflow
		out = append(out, bucket)
	}
	return out
}

// -------------------------
// Branch comparison
// -------------------------

func branchComparison(revenues []models.Revenue, expenses []models.Expense) []BranchTotals {
	out := make([]BranchTotals, 0, len(models.KnownBranches))
	for _, branch := range models.KnownBranches {
		totals := BranchTotals{Branch: branch}
		for _, r := range revenues {
			if r.Branch == branch {
				totals.Revenue += r.Amount
				totals.Transactions++
			}
		}
		for _, e := range expenses {
			if e.Branch == branch {
				totals.Expense += e.Amount
				totals.Transactions++
			}
		}
		totals.Profit = totals.Revenue - totals.Expense
		out = append(out, totals)
	}
	return out
}

func filterRevenuesByBranch(revenues []models.Revenue, branch models.Branch) []models.Revenue {
	out := make([]models.Revenue, 0, len(revenues))
	for _, r := range revenues {
		if r.Branch == branch {
			out = append(out, r)
		}
	}
	return out
}

func filterExpensesByBranch(expenses []models.Expense, branch models.Branch) []models.Expense {
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Branch == branch {
			out = append(out, e)
		}
	}
	return out
}

// -------------------------
// Rankings
// -------------------------

func topCustomers(revenues []models.Revenue) []CustomerRank {
	type customerAgg struct {
		rank CustomerRank
		last time.Time
	}

	index := make(map[string]int)
	aggs := make([]customerAgg, 0)
	for _, r := range revenues {
		name := r.CustomerName
		if name == "" {
			name = defaultCustomerLabel
		}
		i, ok := index[name]
		if !ok {
			i = len(aggs)
			index[name] = i
			aggs = append(aggs, customerAgg{rank: CustomerRank{Name: name}, last: r.Date})
		}
		aggs[i].rank.Revenue += r.Amount
		aggs[i].rank.Transactions++
		if r.Date.After(aggs[i].last) {
			aggs[i].last = r.Date
		}
	}

	out := make([]CustomerRank, 0, len(aggs))
	for _, agg := range aggs {
		agg.rank.LastTransaction = dayKey(agg.last)
		out = append(out, agg.rank)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if len(out) > topRankSize {
		out = out[:topRankSize]
	}
	return out
}

func topProducts(revenues []models.Revenue) []ProductRank {
	index := make(map[string]int)
	out := make([]ProductRank, 0)
	for _, r := range revenues {
		name := r.ProductName
		if name == "" {
			name = defaultProductLabel
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, ProductRank{Name: name})
		}
		out[i].Revenue += r.Amount

		quantity := 1
		if r.Quantity != nil {
			quantity = *r.Quantity
		}
		out[i].Quantity += quantity

		profit := r.Amount * defaultProfitRate
		if r.Profit != nil {
			profit = *r.Profit
		}
		out[i].Profit += profit
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if len(out) > topRankSize {
		out = out[:topRankSize]
	}
	return out
}

func topRevenueEntries(revenues []models.Revenue) []TopEntry {
	sorted := make([]models.Revenue, len(revenues))
	copy(sorted, revenues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })
	if len(sorted) > topEntrySize {
		sorted = sorted[:topEntrySize]
	}

	out := make([]TopEntry, 0, len(sorted))
	for _, r := range sorted {
		description := r.Description
		if description == "" {
			description = defaultDescriptionLabel
		}
		out = append(out, TopEntry{Description: description, Amount: r.Amount, Date: dayKey(r.Date)})
	}
	return out
}

func topExpenseEntries(expenses []models.Expense) []TopEntry {
	sorted := make([]models.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })
	if len(sorted) > topEntrySize {
		sorted = sorted[:topEntrySize]
	}

	out := make([]TopEntry, 0, len(sorted))
	for _, e := range sorted {
		description := e.Description
		if description == "" {
			description = defaultDescriptionLabel
		}
		out = append(out, TopEntry{Description: description, Amount: e.Amount, Date: dayKey(e.Date)})
	}
	return out
}

// -------------------------
// Performance metrics
// -------------------------

func performanceMetrics(monthly []MonthlyTrend, totalRevenues, totalExpenses float64, transactionCount int) PerformanceMetrics {
	metrics := PerformanceMetrics{
		CustomerRetention: placeholderCustomerRetention,
		InventoryTurnover: placeholderInventoryTurnover,
	}

	if transactionCount > 0 {
		metrics.AverageTransactionValue = (totalRevenues + totalExpenses) / float64(transactionCount)
	}

	if len(monthly) > 1 {
		first := monthly[0]
		last := monthly[len(monthly)-1]
		metrics.RevenueGrowth = percentChange(last.Revenue, first.Revenue)
		metrics.ExpenseGrowth = percentChange(last.Expense, first.Expense)

		// Profit can legitimately be zero or negative in the first
		// month; divide by its magnitude, falling back to 1.
		denominator := math.Abs(first.Profit)
		if denominator == 0 {
			denominator = 1
		}
		metrics.ProfitGrowth = (last.Profit - first.Profit) / denominator * 100
	}

	return metrics
}

// percentChange guards the zero denominator: a comparison against
// nothing is reported as 0, never NaN or Inf.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func sortedKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
