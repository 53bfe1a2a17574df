package audit

import (
	"fmt"

	"sahel-backend/internal/database"
	"sahel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

// GET /api/audit-logs?entity_type=revenue&entity_id=1&user_id=2&limit=100
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}

		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}

		if userIDStr := c.Query("user_id"); userIDStr != "" {
			var uid uint
			if _, err := fmt.Sscan(userIDStr, &uid); err == nil && uid > 0 {
				dbq = dbq.Where("user_id = ?", uid)
			}
		}

		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			var l int
			if _, err := fmt.Sscan(limitStr, &l); err == nil && l > 0 && l <= 500 {
				limit = l
			}
		}

		var rows []models.AuditLog
		if err := dbq.Order("created_at desc, id desc").Limit(limit).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب سجل العمليات")
		}

		resp := make([]AuditLogResponse, 0, len(rows))
		for _, row := range rows {
			resp = append(resp, AuditLogResponse{
				ID:          row.ID,
				CreatedAt:   row.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      row.UserID,
				UserName:    row.UserName,
				EntityType:  row.EntityType,
				EntityID:    row.EntityID,
				Action:      row.Action,
				Description: row.Description,
			})
		}

		return c.JSON(resp)
	}
}
