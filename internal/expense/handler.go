package expense

import (
	"fmt"
	"log"
	"strings"
	"time"

	"sahel-backend/internal/audit"
	"sahel-backend/internal/auth"
	"sahel-backend/internal/database"
	"sahel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateExpenseRequest struct {
	Amount      float64       `json:"amount"`
	Date        string        `json:"date"` // "2024-01-05"
	Category    string        `json:"category"`
	Branch      models.Branch `json:"branch"`
	Description string        `json:"description"`
}

type UpdateExpenseRequest struct {
	Amount      *float64       `json:"amount"`
	Date        *string        `json:"date"`
	Category    *string        `json:"category"`
	Branch      *models.Branch `json:"branch"`
	Description *string        `json:"description"`
}

type ExpenseResponse struct {
	ID          uint          `json:"id"`
	Amount      float64       `json:"amount"`
	Date        string        `json:"date"`
	Category    string        `json:"category"`
	Branch      models.Branch `json:"branch,omitempty"`
	Description string        `json:"description"`
	UserID      uint          `json:"user_id"`
	CreatedAt   string        `json:"created_at"`
}

type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Count   int64 `json:"count"`
}

func toResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Amount:      e.Amount,
		Date:        e.Date.Format("2006-01-02"),
		Category:    e.Category,
		Branch:      e.Branch,
		Description: e.Description,
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func currentUser(c *fiber.Ctx) (uint, string, error) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "جلسة غير صالحة")
	}
	name, _ := c.Locals(auth.CtxUserNameKey).(string)
	return userID, name, nil
}

func validateBranch(b models.Branch) error {
	if b != "" && !models.IsKnownBranch(b) {
		return fiber.NewError(fiber.StatusBadRequest, "فرع غير معروف")
	}
	return nil
}

// GET /api/expenses?page=1&limit=10&search=...&category=...&startDate=...&endDate=...
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		dbq := database.DB.Model(&models.Expense{})

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like)
		}

		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category = ?", category)
		}

		if startStr := c.Query("startDate"); startStr != "" {
			start, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "صيغة تاريخ البداية يجب أن تكون YYYY-MM-DD")
			}
			dbq = dbq.Where("date >= ?", start)
		}

		if endStr := c.Query("endDate"); endStr != "" {
			end, err := time.Parse("2006-01-02", endStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "صيغة تاريخ النهاية يجب أن تكون YYYY-MM-DD")
			}
			dbq = dbq.Where("date <= ?", end)
		}

		var count int64
		if err := dbq.Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب المصروفات")
		}

		var rows []models.Expense
		if err := dbq.Order("date desc, id desc").
			Offset((page - 1) * limit).Limit(limit).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب المصروفات")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for _, e := range rows {
			resp = append(resp, toResponse(e))
		}

		totalPages := int((count + int64(limit) - 1) / int64(limit))
		return c.JSON(fiber.Map{
			"expenses": resp,
			"pagination": Pagination{
				Current: page,
				Total:   totalPages,
				Count:   count,
			},
		})
	}
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "الحقل amount مطلوب ويجب أن يكون أكبر من صفر")
		}
		if strings.TrimSpace(body.Category) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "الحقل category مطلوب")
		}
		if err := validateBranch(body.Branch); err != nil {
			return err
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "صيغة التاريخ يجب أن تكون YYYY-MM-DD")
		}

		userID, userName, err := currentUser(c)
		if err != nil {
			return err
		}

		exp := models.Expense{
			Amount:      body.Amount,
			Date:        date,
			Category:    strings.TrimSpace(body.Category),
			Branch:      body.Branch,
			Description: body.Description,
			UserID:      userID,
		}

		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في إنشاء المصروف")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "expense",
			EntityID:    exp.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Expense added: %s - %.2f", exp.Category, exp.Amount),
			After:       toResponse(exp),
		}); logErr != nil {
			log.Printf("audit log failed: %v", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "تمت إضافة المصروف بنجاح",
			"expense": toResponse(exp),
		})
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var exp models.Expense
		if err := database.DB.First(&exp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "المصروف غير موجود")
		}
		before := toResponse(exp)

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount يجب أن يكون أكبر من صفر")
			}
			exp.Amount = *body.Amount
		}
		if body.Date != nil {
			date, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "صيغة التاريخ يجب أن تكون YYYY-MM-DD")
			}
			exp.Date = date
		}
		if body.Category != nil {
			category := strings.TrimSpace(*body.Category)
			if category == "" {
				return fiber.NewError(fiber.StatusBadRequest, "category لا يمكن أن يكون فارغًا")
			}
			exp.Category = category
		}
		if body.Branch != nil {
			if err := validateBranch(*body.Branch); err != nil {
				return err
			}
			exp.Branch = *body.Branch
		}
		if body.Description != nil {
			exp.Description = *body.Description
		}

		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في تحديث المصروف")
		}

		userID, userName, err := currentUser(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    exp.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Expense updated: %s - %.2f", exp.Category, exp.Amount),
				Before:      before,
				After:       toResponse(exp),
			}); logErr != nil {
				log.Printf("audit log failed: %v", logErr)
			}
		}

		return c.JSON(fiber.Map{
			"message": "تم تحديث المصروف بنجاح",
			"expense": toResponse(exp),
		})
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var exp models.Expense
		if err := database.DB.First(&exp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "المصروف غير موجود")
		}

		if err := database.DB.Delete(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في حذف المصروف")
		}

		userID, userName, err := currentUser(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    exp.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Expense deleted: %s - %.2f", exp.Category, exp.Amount),
				Before:      toResponse(exp),
			}); logErr != nil {
				log.Printf("audit log failed: %v", logErr)
			}
		}

		return c.JSON(fiber.Map{"message": "تم حذف المصروف بنجاح"})
	}
}
