package policy

import (
	"github.com/gofiber/fiber/v2"

	"itops-backend/internal/auth"
	"itops-backend/internal/models"
)

// Resource yönetim yetkisi kontrol edilen kayıt türü.
type Resource string

const (
	ResourceEmployee          Resource = "employee"
	ResourceInventoryCategory Resource = "inventory_category"
	ResourceInventoryItem     Resource = "inventory_item"
)

// CanManage çalışan/kategori/envanter yönetimi sadece admin'e açık.
func CanManage(p auth.Principal, _ Resource) bool {
	return p.Role == models.RoleAdmin
}

// CanAccessTicket admin her talebe, kullanıcı sadece kendi açtığına erişir.
func CanAccessTicket(p auth.Principal, t *models.Ticket) bool {
	if p.Role == models.RoleAdmin {
		return true
	}
	return t.CreatedBy == p.ID
}

// CanSetTicketAdminFields status ve assigned_to alanlarını sadece admin yazar.
// Admin olmayanın gönderdiği değerler reddedilmez, sessizce yok sayılır.
func CanSetTicketAdminFields(p auth.Principal) bool {
	return p.Role == models.RoleAdmin
}

// RequireManage route grubu için admin kapısı.
func RequireManage(r Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		if !CanManage(p, r) {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem için admin yetkisi gerekli")
		}
		return c.Next()
	}
}
