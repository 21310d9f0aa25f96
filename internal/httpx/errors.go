package httpx

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"itops-backend/internal/logs"
)

// ValidationError alan bazlı doğrulama hatalarını taşır.
// ErrorHandler bunu 422 + {message, errors{alan: mesaj}} olarak döner.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	// İlk mesaj kalır; Laravel tarzı tek mesaj/alan
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Any() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	return "doğrulama hatası"
}

// ErrorHandler fiber uygulamasının merkezi hata çevirici fonksiyonu.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Verilen veriler geçersiz",
			"errors":  ve.Fields,
		})
	}
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}
	logs.Logger.Errorf("Beklenmeyen hata: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Beklenmeyen sunucu hatası",
	})
}
