package revenue

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

type CreateRevenueRequest struct {
	Amount       float64       `json:"amount"`
	Date         string        `json:"date"` // "2024-01-05"
	Category     string        `json:"category"`
	Branch       models.Branch `json:"branch"`
	Description  string        `json:"description"`
	CustomerName string        `json:"customer_name"`
	ProductName  string        `json:"product_name"`
	Quantity     *int          `json:"quantity"`
	Profit       *float64      `json:"profit"`
}

type UpdateRevenueRequest struct {
	Amount       *float64       `json:"amount"`
	Date         *string        `json:"date"`
	Category     *string        `json:"category"`
	Branch       *models.Branch `json:"branch"`
	Description  *string        `json:"description"`
	CustomerName *string        `json:"customer_name"`
	ProductName  *string        `json:"product_name"`
	Quantity     *int           `json:"quantity"`
	Profit       *float64       `json:"profit"`
}

type RevenueResponse struct {
	ID           uint          `json:"id"`
	Amount       float64       `json:"amount"`
	Date         string        `json:"date"`
	Category     string        `json:"category"`
	Branch       models.Branch `json:"branch,omitempty"`
	Description  string        `json:"description"`
	CustomerName string        `json:"customer_name,omitempty"`
	ProductName  string        `json:"product_name,omitempty"`
	Quantity     *int          `json:"quantity,omitempty"`
	Profit       *float64      `json:"profit,omitempty"`
	UserID       uint          `json:"user_id"`
	CreatedAt    string        `json:"created_at"`
}

type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Count   int64 `json:"count"`
}

func toResponse(r models.Revenue) RevenueResponse {
	return RevenueResponse{
		ID:           r.ID,
		Amount:       r.Amount,
		Date:         r.Date.Format("2006-01-02"),
		Category:     r.Category,
		Branch:       r.Branch,
		Description:  r.Description,
		CustomerName: r.CustomerName,
		ProductName:  r.ProductName,
		Quantity:     r.Quantity,
		Profit:       r.Profit,
		UserID:       r.UserID,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
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

// GET /api/revenues?page=1&limit=10&search=...&category=...&startDate=...&endDate=...
func ListRevenuesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		dbq := database.DB.Model(&models.Revenue{})

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
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب الإيرادات")
		}

		var rows []models.Revenue
		if err := dbq.Order("date desc, id desc").
			Offset((page - 1) * limit).Limit(limit).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب الإيرادات")
		}

		resp := make([]RevenueResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toResponse(r))
		}

		totalPages := int((count + int64(limit) - 1) / int64(limit))
		return c.JSON(fiber.Map{
			"revenues": resp,
			"pagination": Pagination{
				Current: page,
				Total:   totalPages,
				Count:   count,
			},
		})
	}
}

// POST /api/revenues
func CreateRevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRevenueRequest
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

		rev := models.Revenue{
			Amount:       body.Amount,
			Date:         date,
			Category:     strings.TrimSpace(body.Category),
			Branch:       body.Branch,
			Description:  body.Description,
			CustomerName: body.CustomerName,
			ProductName:  body.ProductName,
			Quantity:     body.Quantity,
			Profit:       body.Profit,
			UserID:       userID,
		}

		if err := database.DB.Create(&rev).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في إنشاء الإيراد")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "revenue",
			EntityID:    rev.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Revenue added: %s - %.2f", rev.Category, rev.Amount),
			After:       toResponse(rev),
		}); logErr != nil {
			log.Printf("audit log failed: %v", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "تمت إضافة الإيراد بنجاح",
			"revenue": toResponse(rev),
		})
	}
}

// PUT /api/revenues/:id
func UpdateRevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rev models.Revenue
		if err := database.DB.First(&rev, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "الإيراد غير موجود")
		}
		before := toResponse(rev)

		var body UpdateRevenueRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount يجب أن يكون أكبر من صفر")
			}
			rev.Amount = *body.Amount
		}
		if body.Date != nil {
			date, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "صيغة التاريخ يجب أن تكون YYYY-MM-DD")
			}
			rev.Date = date
		}
		if body.Category != nil {
			category := strings.TrimSpace(*body.Category)
			if category == "" {
				return fiber.NewError(fiber.StatusBadRequest, "category لا يمكن أن يكون فارغًا")
			}
			rev.Category = category
		}
		if body.Branch != nil {
			if err := validateBranch(*body.Branch); err != nil {
				return err
			}
			rev.Branch = *body.Branch
		}
		if body.Description != nil {
			rev.Description = *body.Description
		}
		if body.CustomerName != nil {
			rev.CustomerName = *body.CustomerName
		}
		if body.ProductName != nil {
			rev.ProductName = *body.ProductName
		}
		if body.Quantity != nil {
			rev.Quantity = body.Quantity
		}
		if body.Profit != nil {
			rev.Profit = body.Profit
		}

		if err := database.DB.Save(&rev).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في تحديث الإيراد")
		}

		userID, userName, err := currentUser(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "revenue",
				EntityID:    rev.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Revenue updated: %s - %.2f", rev.Category, rev.Amount),
				Before:      before,
				After:       toResponse(rev),
			}); logErr != nil {
				log.Printf("audit log failed: %v", logErr)
			}
		}

		return c.JSON(fiber.Map{
			"message": "تم تحديث الإيراد بنجاح",
			"revenue": toResponse(rev),
		})
	}
}

// DELETE /api/revenues/:id
func DeleteRevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rev models.Revenue
		if err := database.DB.First(&rev, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "الإيراد غير موجود")
		}

		if err := database.DB.Delete(&rev).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في حذف الإيراد")
		}

		userID, userName, err := currentUser(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "revenue",
				EntityID:    rev.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Revenue deleted: %s - %.2f", rev.Category, rev.Amount),
				Before:      toResponse(rev),
			}); logErr != nil {
				log.Printf("audit log failed: %v", logErr)
			}
		}

		return c.JSON(fiber.Map{"message": "تم حذف الإيراد بنجاح"})
	}
}
