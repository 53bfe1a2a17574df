package request

import (
	"fmt"

	"sahel-backend/internal/auth"
	"sahel-backend/internal/database"
	"sahel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRequestRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Priority    models.RequestPriority `json:"priority"`
}

type UpdateRequestRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Status      *models.RequestStatus   `json:"status"`
	Priority    *models.RequestPriority `json:"priority"`
	AdminNotes  *string                 `json:"admin_notes"`
}

type RequestResponse struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      models.RequestStatus   `json:"status"`
	Priority    models.RequestPriority `json:"priority"`
	UserID      uint                   `json:"user_id"`
	AdminNotes  string                 `json:"admin_notes"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
}

type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Count   int64 `json:"count"`
}

func toResponse(r models.Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		UserID:      r.UserID,
		AdminNotes:  r.AdminNotes,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validPriority(p models.RequestPriority) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent:
		return true
	}
	return false
}

func validStatus(s models.RequestStatus) bool {
	switch s {
	case models.RequestStatusPending, models.RequestStatusApproved, models.RequestStatusRejected:
		return true
	}
	return false
}

// GET /api/requests?page=1&limit=10&status=...&userId=...&priority=...
func ListRequestsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		dbq := database.DB.Model(&models.Request{})

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if userIDStr := c.Query("userId"); userIDStr != "" {
			var uid uint
			if _, err := fmt.Sscan(userIDStr, &uid); err != nil || uid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "userId غير صالح")
			}
			dbq = dbq.Where("user_id = ?", uid)
		}
		if priority := c.Query("priority"); priority != "" {
			dbq = dbq.Where("priority = ?", priority)
		}

		var count int64
		if err := dbq.Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب الطلبات")
		}

		var rows []models.Request
		if err := dbq.Order("created_at desc, id desc").
			Offset((page - 1) * limit).Limit(limit).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب الطلبات")
		}

		resp := make([]RequestResponse, 0, len(rows))
		for _, r := range rows {
			resp = append(resp, toResponse(r))
		}

		totalPages := int((count + int64(limit) - 1) / int64(limit))
		return c.JSON(fiber.Map{
			"requests": resp,
			"pagination": Pagination{
				Current: page,
				Total:   totalPages,
				Count:   count,
			},
		})
	}
}

// POST /api/requests
func CreateRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "الحقل title مطلوب")
		}

		priority := body.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		if !validPriority(priority) {
			return fiber.NewError(fiber.StatusBadRequest, "priority غير صالح")
		}

		userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "جلسة غير صالحة")
		}

		req := models.Request{
			Title:       body.Title,
			Description: body.Description,
			Status:      models.RequestStatusPending, // always starts pending
			Priority:    priority,
			UserID:      userID,
		}

		if err := database.DB.Create(&req).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في إنشاء الطلب")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "تم إنشاء الطلب بنجاح",
			"request": toResponse(req),
		})
	}
}

// PUT /api/requests/:id
func UpdateRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var req models.Request
		if err := database.DB.First(&req, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "الطلب غير موجود")
		}

		var body UpdateRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Title != nil {
			if *body.Title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "title لا يمكن أن يكون فارغًا")
			}
			req.Title = *body.Title
		}
		if body.Description != nil {
			req.Description = *body.Description
		}
		if body.Status != nil {
			if !validStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "status غير صالح")
			}
			req.Status = *body.Status
		}
		if body.Priority != nil {
			if !validPriority(*body.Priority) {
				return fiber.NewError(fiber.StatusBadRequest, "priority غير صالح")
			}
			req.Priority = *body.Priority
		}
		if body.AdminNotes != nil {
			req.AdminNotes = *body.AdminNotes
		}

		if err := database.DB.Save(&req).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في تحديث الطلب")
		}

		return c.JSON(fiber.Map{
			"message": "تم تحديث الطلب بنجاح",
			"request": toResponse(req),
		})
	}
}

// DELETE /api/requests/:id
func DeleteRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		result := database.DB.Delete(&models.Request{}, "id = ?", id)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في حذف الطلب")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "الطلب غير موجود")
		}

		return c.JSON(fiber.Map{"message": "تم حذف الطلب بنجاح"})
	}
}
