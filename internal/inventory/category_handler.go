package inventory

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"itops-backend/internal/database"
	"itops-backend/internal/httpx"
	"itops-backend/internal/models"
	"itops-backend/internal/query"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ItemsCount  int64  `json:"items_count"`
	CreatedAt   string `json:"created_at"`
}

func toCategoryResponse(cat *models.InventoryCategory, itemsCount int64) CategoryResponse {
	return CategoryResponse{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		ItemsCount:  itemsCount,
		CreatedAt:   cat.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validateCategory(body *CategoryRequest) *httpx.ValidationError {
	ve := httpx.NewValidationError()
	if strings.TrimSpace(body.Name) == "" {
		ve.Add("name", "Kategori adı zorunlu")
	}
	if ve.Any() {
		return ve
	}
	return nil
}

// GET /inventory-categories?search=&page=
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := query.Page(c)

		base := database.DB.Model(&models.InventoryCategory{}).
			Scopes(query.Search(c.Query("search"), "name", "description")).
			Session(&gorm.Session{})

		var total int64
		if err := base.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		var categories []models.InventoryCategory
		if err := base.Order("name asc").Scopes(query.Paginate(page)).Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		// Sayfadaki kategoriler için envanter sayıları tek sorguda
		counts := map[uint]int64{}
		if len(categories) > 0 {
			ids := make([]uint, 0, len(categories))
			for _, cat := range categories {
				ids = append(ids, cat.ID)
			}
			type countRow struct {
				CategoryID uint
				N          int64
			}
			var rows []countRow
			database.DB.Model(&models.InventoryItem{}).
				Select("category_id, COUNT(*) AS n").
				Where("category_id IN ?", ids).
				Group("category_id").
				Scan(&rows)
			for _, r := range rows {
				counts[r.CategoryID] = r.N
			}
		}

		data := make([]CategoryResponse, 0, len(categories))
		for i := range categories {
			data = append(data, toCategoryResponse(&categories[i], counts[categories[i].ID]))
		}

		return c.JSON(fiber.Map{
			"data": data,
			"meta": query.NewMeta(page, total),
		})
	}
}

// GET /inventory-categories/create
func CreateCategoryFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{})
	}
}

// POST /inventory-categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if ve := validateCategory(&body); ve != nil {
			return ve
		}

		cat := models.InventoryCategory{
			Name:        strings.TrimSpace(body.Name),
			Description: strings.TrimSpace(body.Description),
		}

		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(&cat, 0))
	}
}

// GET /inventory-categories/:id
func GetCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.InventoryCategory
		if err := database.DB.
			Preload("InventoryItems.AssignedEmployee").
			First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		items := make([]fiber.Map, 0, len(cat.InventoryItems))
		for _, it := range cat.InventoryItems {
			var assignee fiber.Map
			if it.AssignedEmployee != nil {
				assignee = fiber.Map{"id": it.AssignedEmployee.ID, "name": it.AssignedEmployee.Name}
			}
			items = append(items, fiber.Map{
				"id":                it.ID,
				"name":              it.Name,
				"serial_number":     it.SerialNumber,
				"status":            it.Status,
				"assigned_employee": assignee,
			})
		}

		return c.JSON(fiber.Map{
			"category":        toCategoryResponse(&cat, int64(len(cat.InventoryItems))),
			"inventory_items": items,
		})
	}
}

// GET /inventory-categories/:id/edit
func EditCategoryFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.InventoryCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}
		return c.JSON(fiber.Map{"category": toCategoryResponse(&cat, 0)})
	}
}

// PUT /inventory-categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.InventoryCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if ve := validateCategory(&body); ve != nil {
			return ve
		}

		cat.Name = strings.TrimSpace(body.Name)
		cat.Description = strings.TrimSpace(body.Description)

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
		}

		var itemsCount int64
		database.DB.Model(&models.InventoryItem{}).Where("category_id = ?", cat.ID).Count(&itemsCount)

		return c.JSON(toCategoryResponse(&cat, itemsCount))
	}
}

// DELETE /inventory-categories/:id
// Kategori silinince altındaki tüm envanter kayıtları da silinir (cascade).
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.InventoryCategory
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("category_id = ?", cat.ID).Delete(&models.InventoryItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&cat).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
