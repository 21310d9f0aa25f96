package query

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Sayfa boyutu sabit: liste uçları 10'ar kayıt döner.
const PerPage = 10

// Meta Laravel paginator'ına denk sayfalama bilgisi.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewMeta(page int, total int64) Meta {
	lastPage := int((total + PerPage - 1) / PerPage)
	if lastPage < 1 {
		lastPage = 1
	}
	return Meta{
		CurrentPage: page,
		PerPage:     PerPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

// Page ?page parametresini okur; 1 tabanlı, bozuk/eksik değer 1 sayılır.
func Page(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Paginate sayfalama scope'u. Aralık dışı sayfa hata değil, boş sonuç verir.
func Paginate(page int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * PerPage).Limit(PerPage)
	}
}

// Search verilen kolonlarda büyük/küçük harf duyarsız "contains" araması yapar.
// Koşullar OR ile bağlanır ve paranteze alınır; diğer filtrelerle AND ilişkisi
// bozulmaz. Boş arama terimi filtre uygulamaz.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + strings.ToLower(term) + "%"
		conds := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}
