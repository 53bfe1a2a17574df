package main

import (
	"log"
	"strings"

	"sahel-backend/internal/audit"
	"sahel-backend/internal/auth"
	"sahel-backend/internal/bonus"
	"sahel-backend/internal/config"
	"sahel-backend/internal/database"
	"sahel-backend/internal/expense"
	"sahel-backend/internal/models"
	"sahel-backend/internal/productrequest"
	"sahel-backend/internal/report"
	"sahel-backend/internal/request"
	"sahel-backend/internal/revenue"
	"sahel-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "خطأ غير متوقع في الخادم",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// الإيرادات
	protected.Get("/revenues", revenue.ListRevenuesHandler())
	protected.Post("/revenues", revenue.CreateRevenueHandler())
	protected.Put("/revenues/:id", revenue.UpdateRevenueHandler())
	protected.Delete("/revenues/:id", revenue.DeleteRevenueHandler())

	// المصروفات
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Put("/expenses/:id", expense.UpdateExpenseHandler())
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler())

	// طلبات الموظفين
	protected.Get("/requests", request.ListRequestsHandler())
	protected.Post("/requests", request.CreateRequestHandler())
	protected.Put("/requests/:id", request.UpdateRequestHandler())
	protected.Delete("/requests/:id", request.DeleteRequestHandler())

	// طلبات المنتجات
	protected.Get("/product-requests", productrequest.ListProductRequestsHandler())
	protected.Post("/product-requests", productrequest.CreateProductRequestHandler())
	protected.Put("/product-requests/:id", productrequest.UpdateProductRequestHandler())
	protected.Delete("/product-requests/:id", productrequest.DeleteProductRequestHandler())

	// التقارير
	protected.Get("/reports", report.SummaryReportHandler())
	protected.Get("/reports/advanced", report.AdvancedReportHandler())

	// Bonus rules: read for everyone, writes admin only
	protected.Get("/bonus-rules", bonus.ListBonusRulesHandler())

	// Admin routes
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/bonus-rules", bonus.CreateBonusRuleHandler())
	adminRoutes.Put("/bonus-rules/:id", bonus.UpdateBonusRuleHandler())
	adminRoutes.Delete("/bonus-rules/:id", bonus.DeleteBonusRuleHandler())

	adminRoutes.Get("/users", user.ListUsersHandler())
	adminRoutes.Get("/users/:id", user.GetUserHandler())
	adminRoutes.Post("/users", user.CreateUserHandler())
	adminRoutes.Put("/users/:id", user.UpdateUserHandler())
	adminRoutes.Delete("/users/:id", user.DeleteUserHandler())

	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
