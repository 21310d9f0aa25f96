package employee

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"itops-backend/internal/database"
	"itops-backend/internal/httpx"
	"itops-backend/internal/models"
	"itops-backend/internal/query"
)

type EmployeeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

type EmployeeResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
	CreatedAt  string `json:"created_at"`
}

// Çalışan detayında zimmetli envanter de döner (kategorisiyle birlikte)
type AssignedItemResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Status       string `json:"status"`
	Category     string `json:"category"`
}

func toResponse(e *models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Position:   e.Position,
		Department: e.Department,
		CreatedAt:  e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (b *EmployeeRequest) normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(strings.ToLower(b.Email))
	b.Phone = strings.TrimSpace(b.Phone)
	b.Position = strings.TrimSpace(b.Position)
	b.Department = strings.TrimSpace(b.Department)
}

// excludeID güncellemede kaydın kendi email'ini benzersizlik dışında tutar
func validate(body *EmployeeRequest, excludeID uint) *httpx.ValidationError {
	ve := httpx.NewValidationError()

	if body.Name == "" {
		ve.Add("name", "İsim zorunlu")
	}
	if body.Email == "" {
		ve.Add("email", "Email zorunlu")
	} else {
		var count int64
		database.DB.Model(&models.Employee{}).
			Where("email = ? AND id <> ?", body.Email, excludeID).
			Count(&count)
		if count > 0 {
			ve.Add("email", "Bu email başka bir çalışana kayıtlı")
		}
	}

	if ve.Any() {
		return ve
	}
	return nil
}

// Unique index yarışı: eşzamanlı iki create aynı email ile gelirse
// ön kontrol ikisini de geçirebilir, kaybedeni burada yakalarız.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		ve := httpx.NewValidationError()
		ve.Add("email", "Bu email başka bir çalışana kayıtlı")
		return ve
	}
	return nil
}

// GET /employees?search=&page=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := query.Page(c)

		// Session: aynı filtre zinciri hem Count hem Find için kullanılıyor
		base := database.DB.Model(&models.Employee{}).
			Scopes(query.Search(c.Query("search"), "name", "email", "department", "position")).
			Session(&gorm.Session{})

		var total int64
		if err := base.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışanlar listelenemedi")
		}

		var employees []models.Employee
		if err := base.Order("name asc").Scopes(query.Paginate(page)).Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışanlar listelenemedi")
		}

		data := make([]EmployeeResponse, 0, len(employees))
		for i := range employees {
			data = append(data, toResponse(&employees[i]))
		}

		return c.JSON(fiber.Map{
			"data": data,
			"meta": query.NewMeta(page, total),
		})
	}
}

// GET /employees/create, form desteği (çalışan formunun ek verisi yok)
func CreateFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{})
	}
}

// POST /employees
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		body.normalize()

		if ve := validate(&body, 0); ve != nil {
			return ve
		}

		emp := models.Employee{
			Name:       body.Name,
			Email:      body.Email,
			Phone:      body.Phone,
			Position:   body.Position,
			Department: body.Department,
		}

		if err := database.DB.Create(&emp).Error; err != nil {
			if ve := translateDuplicate(err); ve != nil {
				return ve
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışan oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&emp))
	}
}

// GET /employees/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var emp models.Employee
		if err := database.DB.
			Preload("InventoryItems.Category").
			First(&emp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Çalışan bulunamadı")
		}

		items := make([]AssignedItemResponse, 0, len(emp.InventoryItems))
		for _, it := range emp.InventoryItems {
			items = append(items, AssignedItemResponse{
				ID:           it.ID,
				Name:         it.Name,
				SerialNumber: it.SerialNumber,
				Status:       string(it.Status),
				Category:     it.Category.Name,
			})
		}

		return c.JSON(fiber.Map{
			"employee":        toResponse(&emp),
			"inventory_items": items,
		})
	}
}

// GET /employees/:id/edit
func EditFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Çalışan bulunamadı")
		}
		return c.JSON(fiber.Map{"employee": toResponse(&emp)})
	}
}

// PUT /employees/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Çalışan bulunamadı")
		}

		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		body.normalize()

		if ve := validate(&body, emp.ID); ve != nil {
			return ve
		}

		emp.Name = body.Name
		emp.Email = body.Email
		emp.Phone = body.Phone
		emp.Position = body.Position
		emp.Department = body.Department

		if err := database.DB.Save(&emp).Error; err != nil {
			if ve := translateDuplicate(err); ve != nil {
				return ve
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışan güncellenemedi")
		}

		return c.JSON(toResponse(&emp))
	}
}

// DELETE /employees/:id
// Çalışan silinince zimmetli envanterin assigned_to alanı NULL yapılır,
// envanter kaydı silinmez.
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var emp models.Employee
		if err := database.DB.First(&emp, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Çalışan bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.InventoryItem{}).
				Where("assigned_to = ?", emp.ID).
				Update("assigned_to", nil).Error; err != nil {
				return err
			}
			return tx.Delete(&emp).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çalışan silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
