package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"itops-backend/internal/auth"
	"itops-backend/internal/database"
	"itops-backend/internal/models"
)

type Stats struct {
	Employees         int64 `json:"employees"`
	InventoryItems    int64 `json:"inventory_items"`
	AvailableItems    int64 `json:"available_items"`
	AssignedItems     int64 `json:"assigned_items"`
	TotalTickets      int64 `json:"total_tickets"`
	OpenTickets       int64 `json:"open_tickets"`
	InProgressTickets int64 `json:"in_progress_tickets"`
	ResolvedTickets   int64 `json:"resolved_tickets"`
}

type RecentTicket struct {
	ID        uint                  `json:"id"`
	Title     string                `json:"title"`
	Status    models.TicketStatus   `json:"status"`
	Priority  models.TicketPriority `json:"priority"`
	Creator   string                `json:"creator"`
	Assignee  *string               `json:"assignee"`
	CreatedAt string                `json:"created_at"`
}

type RecentItem struct {
	ID               uint              `json:"id"`
	Name             string            `json:"name"`
	SerialNumber     string            `json:"serial_number"`
	Status           models.ItemStatus `json:"status"`
	Category         string            `json:"category"`
	AssignedEmployee *string           `json:"assigned_employee"`
	CreatedAt        string            `json:"created_at"`
}

// GET /dashboard
// Envanter ve çalışan sayaçları herkes için globaldir (envanter User'a değil
// Employee'ye zimmetlenir, "sana atanan" diye bir kesişim yok). Talep
// sayaçları admin olmayan için kendi açtıklarıyla sınırlıdır.
func Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var stats Stats
		database.DB.Model(&models.Employee{}).Count(&stats.Employees)
		database.DB.Model(&models.InventoryItem{}).Count(&stats.InventoryItems)
		database.DB.Model(&models.InventoryItem{}).
			Where("status = ?", models.ItemStatusAvailable).Count(&stats.AvailableItems)
		database.DB.Model(&models.InventoryItem{}).
			Where("status = ?", models.ItemStatusAssigned).Count(&stats.AssignedItems)

		ticketScope := func(db *gorm.DB) *gorm.DB {
			if p.IsAdmin() {
				return db
			}
			return db.Where("created_by = ?", p.ID)
		}

		database.DB.Model(&models.Ticket{}).Scopes(ticketScope).Count(&stats.TotalTickets)
		database.DB.Model(&models.Ticket{}).Scopes(ticketScope).
			Where("status = ?", models.TicketStatusOpen).Count(&stats.OpenTickets)
		database.DB.Model(&models.Ticket{}).Scopes(ticketScope).
			Where("status = ?", models.TicketStatusInProgress).Count(&stats.InProgressTickets)
		database.DB.Model(&models.Ticket{}).Scopes(ticketScope).
			Where("status = ?", models.TicketStatusResolved).Count(&stats.ResolvedTickets)

		var tickets []models.Ticket
		if err := database.DB.
			Preload("Creator").
			Preload("Assignee").
			Scopes(ticketScope).
			Order("created_at desc").
			Limit(5).
			Find(&tickets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard hazırlanamadı")
		}

		recentTickets := make([]RecentTicket, 0, len(tickets))
		for _, t := range tickets {
			rt := RecentTicket{
				ID:        t.ID,
				Title:     t.Title,
				Status:    t.Status,
				Priority:  t.Priority,
				Creator:   t.Creator.Name,
				CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if t.Assignee != nil {
				name := t.Assignee.Name
				rt.Assignee = &name
			}
			recentTickets = append(recentTickets, rt)
		}

		res := fiber.Map{
			"stats":          stats,
			"recent_tickets": recentTickets,
			"is_admin":       p.IsAdmin(),
		}

		// Son eklenen envanter sadece admin'e gösterilir
		if p.IsAdmin() {
			var items []models.InventoryItem
			if err := database.DB.
				Preload("Category").
				Preload("AssignedEmployee").
				Order("created_at desc").
				Limit(5).
				Find(&items).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Dashboard hazırlanamadı")
			}

			recentItems := make([]RecentItem, 0, len(items))
			for _, it := range items {
				ri := RecentItem{
					ID:           it.ID,
					Name:         it.Name,
					SerialNumber: it.SerialNumber,
					Status:       it.Status,
					Category:     it.Category.Name,
					CreatedAt:    it.CreatedAt.Format("2006-01-02 15:04:05"),
				}
				if it.AssignedEmployee != nil {
					name := it.AssignedEmployee.Name
					ri.AssignedEmployee = &name
				}
				recentItems = append(recentItems, ri)
			}
			res["recent_items"] = recentItems
		}

		return c.JSON(res)
	}
}
