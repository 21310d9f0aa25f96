package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"itops-backend/internal/auth"
	"itops-backend/internal/config"
	"itops-backend/internal/dashboard"
	"itops-backend/internal/employee"
	"itops-backend/internal/health"
	"itops-backend/internal/httpx"
	"itops-backend/internal/inventory"
	"itops-backend/internal/middleware"
	"itops-backend/internal/policy"
	"itops-backend/internal/ticket"
)

// New fiber uygulamasını kurar ve tüm route'ları bağlar.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.Logger())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Public
	app.Get("/health-check", health.Handler())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":   "IT Destek & Envanter API",
			"status": "ok",
		})
	})

	app.Post("/auth/register", auth.RegisterHandler())
	app.Post("/auth/register-admin", auth.RegisterAdminHandler())
	app.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := app.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/dashboard", dashboard.Handler())

	// Çalışan yönetimi (sadece admin)
	employees := protected.Group("/employees")
	employees.Use(policy.RequireManage(policy.ResourceEmployee))
	employees.Get("/", employee.ListHandler())
	employees.Post("/", employee.CreateHandler())
	employees.Get("/create", employee.CreateFormHandler())
	employees.Get("/:id/edit", employee.EditFormHandler())
	employees.Get("/:id", employee.GetHandler())
	employees.Put("/:id", employee.UpdateHandler())
	employees.Delete("/:id", employee.DeleteHandler())

	// Envanter kategorileri (sadece admin)
	categories := protected.Group("/inventory-categories")
	categories.Use(policy.RequireManage(policy.ResourceInventoryCategory))
	categories.Get("/", inventory.ListCategoriesHandler())
	categories.Post("/", inventory.CreateCategoryHandler())
	categories.Get("/create", inventory.CreateCategoryFormHandler())
	categories.Get("/:id/edit", inventory.EditCategoryFormHandler())
	categories.Get("/:id", inventory.GetCategoryHandler())
	categories.Put("/:id", inventory.UpdateCategoryHandler())
	categories.Delete("/:id", inventory.DeleteCategoryHandler())

	// Envanter kayıtları (sadece admin)
	items := protected.Group("/inventory-items")
	items.Use(policy.RequireManage(policy.ResourceInventoryItem))
	items.Get("/", inventory.ListItemsHandler())
	items.Post("/", inventory.CreateItemHandler())
	items.Get("/create", inventory.CreateItemFormHandler())
	items.Get("/:id/edit", inventory.EditItemFormHandler())
	items.Get("/:id", inventory.GetItemHandler())
	items.Put("/:id", inventory.UpdateItemHandler())
	items.Delete("/:id", inventory.DeleteItemHandler())

	// Talepler (tüm oturumlu kullanıcılar; kayıt bazlı sahiplik kontrolü
	// handler'larda)
	tickets := protected.Group("/tickets")
	tickets.Get("/", ticket.ListHandler())
	tickets.Post("/", ticket.CreateHandler())
	tickets.Get("/create", ticket.CreateFormHandler())
	tickets.Get("/:id/edit", ticket.EditFormHandler())
	tickets.Get("/:id", ticket.GetHandler())
	tickets.Put("/:id", ticket.UpdateHandler())
	tickets.Delete("/:id", ticket.DeleteHandler())

	return app
}
