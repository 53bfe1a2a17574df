package report

import (
	"log"
	"time"

	"sahel-backend/internal/database"
	"sahel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// parseDateRange reads optional startDate/endDate query params
// (YYYY-MM-DD). An inverted range is rejected outright instead of
// silently producing a nonsensical report.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if s := c.Query("startDate"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "صيغة تاريخ البداية يجب أن تكون YYYY-MM-DD")
		}
		start = &t
	}

	if s := c.Query("endDate"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "صيغة تاريخ النهاية يجب أن تكون YYYY-MM-DD")
		}
		end = &t
	}

	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "نطاق التاريخ غير صالح: تاريخ النهاية قبل تاريخ البداية")
	}

	return start, end, nil
}

func dateWindow(q *gorm.DB, start, end *time.Time) *gorm.DB {
	if start != nil {
		q = q.Where("date >= ?", *start)
	}
	if end != nil {
		q = q.Where("date <= ?", *end)
	}
	return q
}

func fetchWindow(start, end *time.Time) ([]models.Revenue, []models.Expense, error) {
	var revenues []models.Revenue
	if err := dateWindow(database.DB.Model(&models.Revenue{}), start, end).
		Order("date asc, id asc").Find(&revenues).Error; err != nil {
		return nil, nil, err
	}

	var expenses []models.Expense
	if err := dateWindow(database.DB.Model(&models.Expense{}), start, end).
		Order("date asc, id asc").Find(&expenses).Error; err != nil {
		return nil, nil, err
	}

	return revenues, expenses, nil
}

// GET /api/reports?startDate=...&endDate=...
func SummaryReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseDateRange(c)
		if err != nil {
			return err
		}

		revenues, expenses, err := fetchWindow(start, end)
		if err != nil {
			log.Printf("summary report fetch failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في إنشاء التقرير")
		}

		return c.JSON(BuildSummary(revenues, expenses))
	}
}

// GET /api/reports/advanced?startDate=...&endDate=...&branch=laban|tuwaiq|all
func AdvancedReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseDateRange(c)
		if err != nil {
			return err
		}

		// "all" and absent both mean no branch filter
		branch := models.Branch(c.Query("branch"))
		if branch == models.BranchAll {
			branch = ""
		}
		if branch != "" && !models.IsKnownBranch(branch) {
			return fiber.NewError(fiber.StatusBadRequest, "فرع غير معروف")
		}

		revenues, expenses, err := fetchWindow(start, end)
		if err != nil {
			log.Printf("advanced report fetch failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في إنشاء التقرير المتقدم")
		}

		return c.JSON(BuildAdvanced(revenues, expenses, branch))
	}
}
