package user

import (
	"strings"

	"sahel-backend/internal/database"
	"sahel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	Title    string          `json:"title"`
}

type UpdateUserRequest struct {
	Name     *string          `json:"name"`
	Email    *string          `json:"email"`
	Password *string          `json:"password"`
	Role     *models.UserRole `json:"role"`
	Title    *string          `json:"title"`
	IsActive *bool            `json:"is_active"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	Title     string          `json:"title"`
	IsActive  bool            `json:"is_active"`
	CreatedAt string          `json:"created_at"`
}

func toResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Title:     u.Title,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validRole(r models.UserRole) bool {
	return r == models.RoleAdmin || r == models.RoleUser
}

// GET /api/users (admin)
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []models.User
		if err := database.DB.Order("name asc").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في جلب المستخدمين")
		}

		resp := make([]UserResponse, 0, len(rows))
		for _, u := range rows {
			resp = append(resp, toResponse(u))
		}
		return c.JSON(resp)
	}
}

// GET /api/users/:id (admin)
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var u models.User
		if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "المستخدم غير موجود")
		}
		return c.JSON(toResponse(u))
	}
}

// POST /api/users (admin)
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "الاسم والبريد الإلكتروني وكلمة المرور مطلوبة")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "كلمة المرور يجب أن تكون 8 أحرف على الأقل")
		}

		role := body.Role
		if role == "" {
			role = models.RoleUser
		}
		if !validRole(role) {
			return fiber.NewError(fiber.StatusBadRequest, "role غير صالح")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "البريد الإلكتروني مستخدم بالفعل")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في تشفير كلمة المرور")
		}

		u := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         role,
			Title:        body.Title,
			IsActive:     true,
		}

		if err := database.DB.Create(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في إنشاء المستخدم")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "تم إنشاء المستخدم بنجاح",
			"user":    toResponse(u),
		})
	}
}

// PUT /api/users/:id (admin)
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var u models.User
		if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "المستخدم غير موجود")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "بيانات الطلب غير صالحة")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name لا يمكن أن يكون فارغًا")
			}
			u.Name = name
		}
		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "email لا يمكن أن يكون فارغًا")
			}
			if email != u.Email {
				var count int64
				database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
				if count > 0 {
					return fiber.NewError(fiber.StatusConflict, "البريد الإلكتروني مستخدم بالفعل")
				}
			}
			u.Email = email
		}
		if body.Password != nil {
			if len(*body.Password) < 8 {
				return fiber.NewError(fiber.StatusBadRequest, "كلمة المرور يجب أن تكون 8 أحرف على الأقل")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "فشل في تشفير كلمة المرور")
			}
			u.PasswordHash = string(hash)
		}
		if body.Role != nil {
			if !validRole(*body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "role غير صالح")
			}
			u.Role = *body.Role
		}
		if body.Title != nil {
			u.Title = *body.Title
		}
		if body.IsActive != nil {
			u.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في تحديث المستخدم")
		}

		return c.JSON(fiber.Map{
			"message": "تم تحديث المستخدم بنجاح",
			"user":    toResponse(u),
		})
	}
}

// DELETE /api/users/:id (admin)
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		result := database.DB.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "فشل في حذف المستخدم")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "المستخدم غير موجود")
		}

		return c.JSON(fiber.Map{"message": "تم حذف المستخدم بنجاح"})
	}
}
