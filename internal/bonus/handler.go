package bonus

import (
	"strings"

	"sahel-backend/internal/database"
	"sahel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateBonusRuleRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	Type        models.BonusType `json:"type"`
	Active      *bool            `json:"active"`
}

type UpdateBonusRuleRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Amount      *float64          `json:"amount"`
	Type        *models.BonusType `json:"type"`
	Active      *bool             `json:"active"`
}

type BonusRuleResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	Type        models.BonusType `json:"type"`
	Active      bool             `json:"active"`
	CreatedAt   string           `json:"created_at"`
}

func toResponse(r models.BonusRule) BonusRuleResponse {
	return BonusRuleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        r.Type,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validType(t models.BonusType) bool {
	return t == models.BonusTypeFixed || t == models.BonusTypePercentage
}

// GET /api/bonus-rules
func ListBonusRulesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.BonusRule{})

		// ?active=true limits to enabled rules
		if c.Query("active") == "true" {
			dbq = dbq.Where("active = ?", true)
		}

		var rows []models.BonusRule
		if err := dbq.Order("name asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب قواعد المكافآت")
		}

		resp := make([]BonusRuleResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toResponse(r))
		}
		return c.JSON(resp)
	}
}

// POST /api/bonus-rules (admin)
func CreateBonusRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBonusRuleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || strings.TrimSpace(body.Description) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "الاسم والوصف مطلوبان")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount يجب أن يكون أكبر من صفر")
		}
		if !validType(body.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "type يجب أن يكون fixed أو percentage")
		}

		active := true
		if body.Active != nil {
			active = *body.Active
		}

		rule := models.BonusRule{
			Name:        body.Name,
			Description: body.Description,
			Amount:      body.Amount,
			Type:        body.Type,
			Active:      active,
		}

		if err := database.DB.Create(&rule).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في إنشاء قاعدة المكافأة")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":    "تم إنشاء قاعدة المكافأة بنجاح",
			"bonus_rule": toResponse(rule),
		})
	}
}

// PUT /api/bonus-rules/:id (admin)
func UpdateBonusRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rule models.BonusRule
		if err := database.DB.First(&rule, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "قاعدة المكافأة غير موجودة")
		}

		var body UpdateBonusRuleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name لا يمكن أن يكون فارغًا")
			}
			rule.Name = name
		}
		if body.Description != nil {
			rule.Description = *body.Description
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "amount يجب أن يكون أكبر من صفر")
			}
			rule.Amount = *body.Amount
		}
		if body.Type != nil {
			if !validType(*body.Type) {
				return fiber.NewError(fiber.StatusBadRequest, "type يجب أن يكون fixed أو percentage")
			}
			rule.Type = *body.Type
		}
		if body.Active != nil {
			rule.Active = *body.Active
		}

		if err := database.DB.Save(&rule).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في تحديث قاعدة المكافأة")
		}

		return c.JSON(fiber.Map{
			"message":    "تم تحديث قاعدة المكافأة بنجاح",
			"bonus_rule": toResponse(rule),
		})
	}
}

// DELETE /api/bonus-rules/:id (admin)
func DeleteBonusRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		result := database.DB.Delete(&models.BonusRule{}, "id = ?", id)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في حذف قاعدة المكافأة")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "قاعدة المكافأة غير موجودة")
		}

		return c.JSON(fiber.Map{"message": "تم حذف قاعدة المكافأة بنجاح"})
	}
}
