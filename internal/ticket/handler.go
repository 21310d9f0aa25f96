package ticket

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"itops-backend/internal/auth"
	"itops-backend/internal/database"
	"itops-backend/internal/httpx"
	"itops-backend/internal/models"
	"itops-backend/internal/policy"
	"itops-backend/internal/query"
)

// created_by istemciden alınmaz; her zaman oturumdaki kullanıcıdır.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    models.TicketPriority `json:"priority"`
}

type UpdateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    models.TicketPriority `json:"priority"`
	Status      models.TicketStatus   `json:"status"`      // sadece admin; boş = değiştirme
	AssignedTo  *uint                 `json:"assigned_to"` // sadece admin; nil = atamayı kaldır
}

type TicketUserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TicketResponse struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      models.TicketStatus   `json:"status"`
	Priority    models.TicketPriority `json:"priority"`
	CreatedBy   uint                  `json:"created_by"`
	Creator     TicketUserResponse    `json:"creator"`
	AssignedTo  *uint                 `json:"assigned_to"`
	Assignee    *TicketUserResponse   `json:"assignee"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

func toResponse(t *models.Ticket) TicketResponse {
	res := TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedBy:   t.CreatedBy,
		Creator:     TicketUserResponse{ID: t.Creator.ID, Name: t.Creator.Name, Email: t.Creator.Email},
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   t.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if t.Assignee != nil {
		res.Assignee = &TicketUserResponse{ID: t.Assignee.ID, Name: t.Assignee.Name, Email: t.Assignee.Email}
	}
	return res
}

// İlişkileriyle birlikte yeniden oku
func loadTicket(id uint) (*models.Ticket, error) {
	var t models.Ticket
	err := database.DB.
		Preload("Creator").
		Preload("Assignee").
		First(&t, id).Error
	return &t, err
}

func findTicket(c *fiber.Ctx, p auth.Principal) (*models.Ticket, error) {
	var t models.Ticket
	if err := database.DB.
		Preload("Creator").
		Preload("Assignee").
		First(&t, "id = ?", c.Params("id")).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Talep bulunamadı")
	}
	if !policy.CanAccessTicket(p, &t) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Bu talebe erişim yetkiniz yok")
	}
	return &t, nil
}

// GET /tickets?search=&status=&priority=&page=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		page := query.Page(c)

		base := database.DB.Model(&models.Ticket{})
		// Admin olmayan sadece kendi açtığı talepleri görür; bu kısıt
		// kullanıcı filtrelerinden önce uygulanır
		if !p.IsAdmin() {
			base = base.Where("created_by = ?", p.ID)
		}
		base = base.
			Scopes(query.Search(c.Query("search"), "title", "description")).
			Session(&gorm.Session{})

		if status := c.Query("status"); status != "" {
			base = base.Where("status = ?", status)
		}
		if priority := c.Query("priority"); priority != "" {
			base = base.Where("priority = ?", priority)
		}
		base = base.Session(&gorm.Session{})

		var total int64
		if err := base.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talepler listelenemedi")
		}

		var tickets []models.Ticket
		if err := base.
			Preload("Creator").
			Preload("Assignee").
			Order("created_at desc").
			Scopes(query.Paginate(page)).
			Find(&tickets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talepler listelenemedi")
		}

		data := make([]TicketResponse, 0, len(tickets))
		for i := range tickets {
			data = append(data, toResponse(&tickets[i]))
		}

		return c.JSON(fiber.Map{
			"data":     data,
			"meta":     query.NewMeta(page, total),
			"is_admin": p.IsAdmin(),
		})
	}
}

// GET /tickets/create
func CreateFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{})
	}
}

// POST /tickets
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateTicketRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Title = strings.TrimSpace(body.Title)
		body.Description = strings.TrimSpace(body.Description)

		ve := httpx.NewValidationError()
		if body.Title == "" {
			ve.Add("title", "Başlık zorunlu")
		}
		if body.Description == "" {
			ve.Add("description", "Açıklama zorunlu")
		}
		if body.Priority == "" {
			ve.Add("priority", "Öncelik zorunlu")
		} else if !models.ValidTicketPriority(body.Priority) {
			ve.Add("priority", "Öncelik Low, Medium veya High olmalı")
		}
		if ve.Any() {
			return ve
		}

		t := models.Ticket{
			Title:       body.Title,
			Description: body.Description,
			Status:      models.TicketStatusOpen,
			Priority:    body.Priority,
			CreatedBy:   p.ID,
		}

		if err := database.DB.Create(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep oluşturulamadı")
		}

		full, err := loadTicket(t.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep okunamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(full))
	}
}

// GET /tickets/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		t, err := findTicket(c, p)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"ticket":   toResponse(t),
			"is_admin": p.IsAdmin(),
		})
	}
}

// GET /tickets/:id/edit, talep + teknisyen listesi (admin kullanıcılar)
func EditFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		t, err := findTicket(c, p)
		if err != nil {
			return err
		}

		var technicians []models.User
		if err := database.DB.
			Where("role = ?", models.RoleAdmin).
			Order("name asc").
			Find(&technicians).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Teknisyenler listelenemedi")
		}

		techs := make([]TicketUserResponse, 0, len(technicians))
		for _, u := range technicians {
			techs = append(techs, TicketUserResponse{ID: u.ID, Name: u.Name, Email: u.Email})
		}

		return c.JSON(fiber.Map{
			"ticket":      toResponse(t),
			"technicians": techs,
			"is_admin":    p.IsAdmin(),
		})
	}
}

// PUT /tickets/:id
// Admin olmayan kullanıcının gönderdiği status/assigned_to alanları
// reddedilmez, sessizce yok sayılır.
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		t, err := findTicket(c, p)
		if err != nil {
			return err
		}

		var body UpdateTicketRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Title = strings.TrimSpace(body.Title)
		body.Description = strings.TrimSpace(body.Description)

		ve := httpx.NewValidationError()
		if body.Title == "" {
			ve.Add("title", "Başlık zorunlu")
		}
		if body.Description == "" {
			ve.Add("description", "Açıklama zorunlu")
		}
		if body.Priority == "" {
			ve.Add("priority", "Öncelik zorunlu")
		} else if !models.ValidTicketPriority(body.Priority) {
			ve.Add("priority", "Öncelik Low, Medium veya High olmalı")
		}

		if policy.CanSetTicketAdminFields(p) {
			if body.Status != "" && !models.ValidTicketStatus(body.Status) {
				ve.Add("status", "Durum Open, In Progress, Resolved veya Closed olmalı")
			}
			if body.AssignedTo != nil {
				var count int64
				database.DB.Model(&models.User{}).Where("id = ?", *body.AssignedTo).Count(&count)
				if count == 0 {
					ve.Add("assigned_to", "Seçilen kullanıcı mevcut değil")
				}
			}
		}
		if ve.Any() {
			return ve
		}

		t.Title = body.Title
		t.Description = body.Description
		t.Priority = body.Priority
		if policy.CanSetTicketAdminFields(p) {
			if body.Status != "" {
				t.Status = body.Status
			}
			t.AssignedTo = body.AssignedTo
		}

		// Preload edilmiş Creator/Assignee ilişkileri tekrar yazılmasın
		if err := database.DB.Omit(clause.Associations).Save(t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep güncellenemedi")
		}

		full, err := loadTicket(t.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep okunamadı")
		}

		return c.JSON(toResponse(full))
	}
}

// DELETE /tickets/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		t, err := findTicket(c, p)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Talep silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
