package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"itops-backend/internal/database"
	"itops-backend/internal/httpx"
	"itops-backend/internal/models"
	"itops-backend/internal/query"
)

const dateLayout = "2006-01-02"

type ItemRequest struct {
	Name            string            `json:"name"`
	CategoryID      uint              `json:"category_id"`
	SerialNumber    string            `json:"serial_number"`
	Brand           string            `json:"brand"`
	Model           string            `json:"model"`
	PurchaseDate    string            `json:"purchase_date"`     // "2025-01-31"
	WarrantyEndDate *string           `json:"warranty_end_date"` // opsiyonel
	Status          models.ItemStatus `json:"status"`
	Location        string            `json:"location"`
	Description     string            `json:"description"`
	AssignedTo      *uint             `json:"assigned_to"`
}

type ItemCategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ItemEmployeeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ItemResponse struct {
	ID               uint                  `json:"id"`
	Name             string                `json:"name"`
	CategoryID       uint                  `json:"category_id"`
	Category         ItemCategoryResponse  `json:"category"`
	SerialNumber     string                `json:"serial_number"`
	Brand            string                `json:"brand"`
	Model            string                `json:"model"`
	PurchaseDate     string                `json:"purchase_date"`
	WarrantyEndDate  *string               `json:"warranty_end_date"`
	Status           models.ItemStatus     `json:"status"`
	Location         string                `json:"location"`
	Description      string                `json:"description"`
	AssignedTo       *uint                 `json:"assigned_to"`
	AssignedEmployee *ItemEmployeeResponse `json:"assigned_employee"`
	CreatedAt        string                `json:"created_at"`
}

func toItemResponse(it *models.InventoryItem) ItemResponse {
	res := ItemResponse{
		ID:           it.ID,
		Name:         it.Name,
		CategoryID:   it.CategoryID,
		Category:     ItemCategoryResponse{ID: it.Category.ID, Name: it.Category.Name},
		SerialNumber: it.SerialNumber,
		Brand:        it.Brand,
		Model:        it.Model,
		PurchaseDate: it.PurchaseDate.Format(dateLayout),
		Status:       it.Status,
		Location:     it.Location,
		Description:  it.Description,
		AssignedTo:   it.AssignedTo,
		CreatedAt:    it.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if it.WarrantyEndDate != nil {
		w := it.WarrantyEndDate.Format(dateLayout)
		res.WarrantyEndDate = &w
	}
	if it.AssignedEmployee != nil {
		res.AssignedEmployee = &ItemEmployeeResponse{ID: it.AssignedEmployee.ID, Name: it.AssignedEmployee.Name}
	}
	return res
}

type parsedItem struct {
	purchaseDate    time.Time
	warrantyEndDate *time.Time
}

// validateItem tüm alan hatalarını toplayıp tek ValidationError döner.
// excludeID güncellemede kaydın kendi seri numarasını benzersizlik dışında tutar.
func validateItem(body *ItemRequest, excludeID uint) (*parsedItem, *httpx.ValidationError) {
	ve := httpx.NewValidationError()
	parsed := &parsedItem{}

	body.Name = strings.TrimSpace(body.Name)
	body.SerialNumber = strings.TrimSpace(body.SerialNumber)
	body.Brand = strings.TrimSpace(body.Brand)
	body.Model = strings.TrimSpace(body.Model)
	body.Location = strings.TrimSpace(body.Location)

	if body.Name == "" {
		ve.Add("name", "Ürün adı zorunlu")
	}

	if body.CategoryID == 0 {
		ve.Add("category_id", "Kategori zorunlu")
	} else {
		var count int64
		database.DB.Model(&models.InventoryCategory{}).Where("id = ?", body.CategoryID).Count(&count)
		if count == 0 {
			ve.Add("category_id", "Seçilen kategori mevcut değil")
		}
	}

	if body.SerialNumber == "" {
		ve.Add("serial_number", "Seri numarası zorunlu")
	} else {
		var count int64
		database.DB.Model(&models.InventoryItem{}).
			Where("serial_number = ? AND id <> ?", body.SerialNumber, excludeID).
			Count(&count)
		if count > 0 {
			ve.Add("serial_number", "Bu seri numarası başka bir ürüne kayıtlı")
		}
	}

	if body.Brand == "" {
		ve.Add("brand", "Marka zorunlu")
	}
	if body.Model == "" {
		ve.Add("model", "Model zorunlu")
	}
	if body.Location == "" {
		ve.Add("location", "Konum zorunlu")
	}

	if body.PurchaseDate == "" {
		ve.Add("purchase_date", "Satın alma tarihi zorunlu")
	} else if d, err := time.Parse(dateLayout, body.PurchaseDate); err != nil {
		ve.Add("purchase_date", "Satın alma tarihi geçersiz (YYYY-AA-GG)")
	} else {
		parsed.purchaseDate = d
	}

	if body.WarrantyEndDate != nil && *body.WarrantyEndDate != "" {
		if d, err := time.Parse(dateLayout, *body.WarrantyEndDate); err != nil {
			ve.Add("warranty_end_date", "Garanti bitiş tarihi geçersiz (YYYY-AA-GG)")
		} else if !parsed.purchaseDate.IsZero() && d.Before(parsed.purchaseDate) {
			ve.Add("warranty_end_date", "Garanti bitişi satın alma tarihinden önce olamaz")
		} else {
			parsed.warrantyEndDate = &d
		}
	}

	if body.Status == "" {
		ve.Add("status", "Durum zorunlu")
	} else if !models.ValidItemStatus(body.Status) {
		ve.Add("status", "Durum Available, Assigned, In Repair veya Retired olmalı")
	}

	if body.AssignedTo != nil {
		var count int64
		database.DB.Model(&models.Employee{}).Where("id = ?", *body.AssignedTo).Count(&count)
		if count == 0 {
			ve.Add("assigned_to", "Seçilen çalışan mevcut değil")
		}
	}

	if ve.Any() {
		return nil, ve
	}
	return parsed, nil
}

func translateItemDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		ve := httpx.NewValidationError()
		ve.Add("serial_number", "Bu seri numarası başka bir ürüne kayıtlı")
		return ve
	}
	return nil
}

// İlişkileriyle birlikte yeniden oku; caller ikinci sorgu atmasın
func loadItem(id uint) (*models.InventoryItem, error) {
	var it models.InventoryItem
	err := database.DB.
		Preload("Category").
		Preload("AssignedEmployee").
		First(&it, id).Error
	return &it, err
}

// GET /inventory-items?search=&status=&category=&page=
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := query.Page(c)

		base := database.DB.Model(&models.InventoryItem{}).
			Scopes(query.Search(c.Query("search"), "name", "serial_number", "brand", "model")).
			Session(&gorm.Session{})

		// Boş filtre kısıt koymaz
		if status := c.Query("status"); status != "" {
			base = base.Where("status = ?", status)
		}
		if category := c.Query("category"); category != "" {
			base = base.Where("category_id = ?", category)
		}
		base = base.Session(&gorm.Session{})

		var total int64
		if err := base.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter listelenemedi")
		}

		var items []models.InventoryItem
		if err := base.
			Preload("Category").
			Preload("AssignedEmployee").
			Order("name asc").
			Scopes(query.Paginate(page)).
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter listelenemedi")
		}

		data := make([]ItemResponse, 0, len(items))
		for i := range items {
			data = append(data, toItemResponse(&items[i]))
		}

		return c.JSON(fiber.Map{
			"data": data,
			"meta": query.NewMeta(page, total),
		})
	}
}

// Form uçları için kategori/çalışan listeleri (isme göre sıralı)
func formOptions() (fiber.Map, error) {
	var categories []models.InventoryCategory
	if err := database.DB.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	var employees []models.Employee
	if err := database.DB.Order("name asc").Find(&employees).Error; err != nil {
		return nil, err
	}

	cats := make([]ItemCategoryResponse, 0, len(categories))
	for _, cat := range categories {
		cats = append(cats, ItemCategoryResponse{ID: cat.ID, Name: cat.Name})
	}
	emps := make([]ItemEmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		emps = append(emps, ItemEmployeeResponse{ID: emp.ID, Name: emp.Name})
	}

	return fiber.Map{"categories": cats, "employees": emps}, nil
}

// GET /inventory-items/create
func CreateItemFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := formOptions()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Form verisi hazırlanamadı")
		}
		return c.JSON(opts)
	}
}

// POST /inventory-items
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		// Boş status sadece oluşturmada migration varsayılanına düşer;
		// güncellemede alan zorunludur
		if body.Status == "" {
			body.Status = models.ItemStatusAvailable
		}

		parsed, ve := validateItem(&body, 0)
		if ve != nil {
			return ve
		}

		it := models.InventoryItem{
			Name:            body.Name,
			CategoryID:      body.CategoryID,
			SerialNumber:    body.SerialNumber,
			Brand:           body.Brand,
			Model:           body.Model,
			PurchaseDate:    parsed.purchaseDate,
			WarrantyEndDate: parsed.warrantyEndDate,
			Status:          body.Status,
			Location:        body.Location,
			Description:     body.Description,
			AssignedTo:      body.AssignedTo,
		}

		if err := database.DB.Create(&it).Error; err != nil {
			if ve := translateItemDuplicate(err); ve != nil {
				return ve
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter kaydı oluşturulamadı")
		}

		full, err := loadItem(it.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter kaydı okunamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toItemResponse(full))
	}
}

// GET /inventory-items/:id
func GetItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.InventoryItem
		if err := database.DB.
			Preload("Category").
			Preload("AssignedEmployee").
			First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Envanter kaydı bulunamadı")
		}
		return c.JSON(toItemResponse(&it))
	}
}

// GET /inventory-items/:id/edit
func EditItemFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.InventoryItem
		if err := database.DB.
			Preload("Category").
			Preload("AssignedEmployee").
			First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Envanter kaydı bulunamadı")
		}

		opts, err := formOptions()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Form verisi hazırlanamadı")
		}
		opts["item"] = toItemResponse(&it)
		return c.JSON(opts)
	}
}

// PUT /inventory-items/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.InventoryItem
		if err := database.DB.First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Envanter kaydı bulunamadı")
		}

		var body ItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		parsed, ve := validateItem(&body, it.ID)
		if ve != nil {
			return ve
		}

		it.Name = body.Name
		it.CategoryID = body.CategoryID
		it.SerialNumber = body.SerialNumber
		it.Brand = body.Brand
		it.Model = body.Model
		it.PurchaseDate = parsed.purchaseDate
		it.WarrantyEndDate = parsed.warrantyEndDate
		it.Status = body.Status
		it.Location = body.Location
		it.Description = body.Description
		it.AssignedTo = body.AssignedTo

		if err := database.DB.Save(&it).Error; err != nil {
			if ve := translateItemDuplicate(err); ve != nil {
				return ve
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter kaydı güncellenemedi")
		}

		full, err := loadItem(it.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter kaydı okunamadı")
		}

		return c.JSON(toItemResponse(full))
	}
}

// DELETE /inventory-items/:id
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.InventoryItem
		if err := database.DB.First(&it, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Envanter kaydı bulunamadı")
		}

		if err := database.DB.Delete(&it).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Envanter kaydı silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
