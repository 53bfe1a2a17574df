package productrequest

import (
	"fmt"

	"sahel-backend/internal/auth"
	"sahel-backend/internal/database"
	"sahel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequestRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
}

type UpdateProductRequestRequest struct {
	Title           *string                      `json:"title"`
	Description     *string                      `json:"description"`
	Quantity        *int                         `json:"quantity"`
	UnitPrice       *float64                     `json:"unit_price"`
	Status          *models.ProductRequestStatus `json:"status"`
	AdminNotes      *string                      `json:"admin_notes"`
	RejectionReason *string                      `json:"rejection_reason"`
}

type ProductRequestResponse struct {
	ID              uint                        `json:"id"`
	Title           string                      `json:"title"`
	Description     string                      `json:"description"`
	Quantity        int                         `json:"quantity"`
	UnitPrice       *float64                    `json:"unit_price,omitempty"`
	TotalPrice      *float64                    `json:"total_price,omitempty"`
	Status          models.ProductRequestStatus `json:"status"`
	UserID          uint                        `json:"user_id"`
	AdminNotes      string                      `json:"admin_notes"`
	RejectionReason string                      `json:"rejection_reason,omitempty"`
	CreatedAt       string                      `json:"created_at"`
	UpdatedAt       string                      `json:"updated_at"`
}

type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Count   int64 `json:"count"`
}

func toResponse(pr models.ProductRequest) ProductRequestResponse {
	return ProductRequestResponse{
		ID:              pr.ID,
		Title:           pr.Title,
		Description:     pr.Description,
		Quantity:        pr.Quantity,
		UnitPrice:       pr.UnitPrice,
		TotalPrice:      pr.TotalPrice,
		Status:          pr.Status,
		UserID:          pr.UserID,
		AdminNotes:      pr.AdminNotes,
		RejectionReason: pr.RejectionReason,
		CreatedAt:       pr.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       pr.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validStatus(s models.ProductRequestStatus) bool {
	switch s {
	case models.ProductRequestPending, models.ProductRequestApproved, models.ProductRequestRejected,
		models.ProductRequestOrdered, models.ProductRequestDelivered:
		return true
	}
	return false
}

// recomputeTotal keeps total_price = quantity * unit_price whenever
// either side changes; absent unit price means absent total.
func recomputeTotal(pr *models.ProductRequest) {
	if pr.UnitPrice == nil {
		pr.TotalPrice = nil
		return
	}
	total := float64(pr.Quantity) * *pr.UnitPrice
	pr.TotalPrice = &total
}

// GET /api/product-requests?page=1&limit=10&status=...&userId=...
func ListProductRequestsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		dbq := database.DB.Model(&models.ProductRequest{})

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

		var count int64
		if err := dbq.Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب طلبات المنتجات")
		}

		var rows []models.ProductRequest
		if err := dbq.Order("created_at desc, id desc").
			Offset((page - 1) * limit).Limit(limit).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب طلبات المنتجات")
		}

		resp := make([]ProductRequestResponse, 0, len(rows))
		for _, pr := range rows {
			resp = append(resp, toResponse(pr))
		}

		totalPages := int((count + int64(limit) - 1) / int64(limit))
		return c.JSON(fiber.Map{
			"product_requests": resp,
			"pagination": Pagination{
				Current: page,
				Total:   totalPages,
				Count:   count,
			},
		})
	}
}

// POST /api/product-requests
func CreateProductRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "الحقل title مطلوب")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "الحقل quantity مطلوب ويجب أن يكون أكبر من صفر")
		}
		if body.UnitPrice != nil && *body.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_price لا يمكن أن يكون سالبًا")
		}

		userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "جلسة غير صالحة")
		}

		pr := models.ProductRequest{
			Title:       body.Title,
			Description: body.Description,
			Quantity:    body.Quantity,
			UnitPrice:   body.UnitPrice,
			Status:      models.ProductRequestPending,
			UserID:      userID,
		}
		recomputeTotal(&pr)

		if err := database.DB.Create(&pr).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في إنشاء طلب المنتج")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":         "تم إنشاء طلب المنتج بنجاح",
			"product_request": toResponse(pr),
		})
	}
}

// PUT /api/product-requests/:id
func UpdateProductRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var pr models.ProductRequest
		if err := database.DB.First(&pr, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "طلب المنتج غير موجود")
		}

		var body UpdateProductRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Title != nil {
			if *body.Title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "title لا يمكن أن يكون فارغًا")
			}
			pr.Title = *body.Title
		}
		if body.Description != nil {
			pr.Description = *body.Description
		}
		if body.Quantity != nil {
			if *body.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity يجب أن يكون أكبر من صفر")
			}
			pr.Quantity = *body.Quantity
		}
		if body.UnitPrice != nil {
			if *body.UnitPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unit_price لا يمكن أن يكون سالبًا")
			}
			pr.UnitPrice = body.UnitPrice
		}
		if body.Status != nil {
			if !validStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "status غير صالح")
			}
			pr.Status = *body.Status
		}
		if body.AdminNotes != nil {
			pr.AdminNotes = *body.AdminNotes
		}
		if body.RejectionReason != nil {
			pr.RejectionReason = *body.RejectionReason
		}
		recomputeTotal(&pr)

		if err := database.DB.Save(&pr).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في تحديث طلب المنتج")
		}

		return c.JSON(fiber.Map{
			"message":         "تم تحديث طلب المنتج بنجاح",
			"product_request": toResponse(pr),
		})
	}
}

// DELETE /api/product-requests/:id
func DeleteProductRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		result := database.DB.Delete(&models.ProductRequest{}, "id = ?", id)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في حذف طلب المنتج")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "طلب المنتج غير موجود")
		}

		return c.JSON(fiber.Map{"message": "تم حذف طلب المنتج بنجاح"})
	}
}
