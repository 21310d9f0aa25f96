package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"itops-backend/internal/auth"
	"itops-backend/internal/config"
	"itops-backend/internal/database"
	"itops-backend/internal/models"
	"itops-backend/internal/server"
)

var dbCounter atomic.Int64

// Config testlerde kullanılan sabit konfigürasyon.
func Config() *config.Config {
	cfg := &config.Config{
		HTTPPort:    "0",
		JWTSecret:   "test-secret-key-for-unit-tests-0123456789",
		CORSOrigins: "http://localhost:5173",
	}
	cfg.Logging.Level = "error"
	return cfg
}

// SetupDB her test için izole bir in-memory sqlite açar ve global
// database.DB'yi ona bağlar.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	return db
}

// SetupApp test veritabanı + tüm route'ları bağlı fiber uygulaması.
func SetupApp(t *testing.T) *fiber.App {
	t.Helper()
	SetupDB(t)
	return server.New(Config())
}

func createUser(t *testing.T, name, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func CreateAdmin(t *testing.T, name, email string) *models.User {
	return createUser(t, name, email, models.RoleAdmin)
}

func CreateUser(t *testing.T, name, email string) *models.User {
	return createUser(t, name, email, models.RoleUser)
}

// Token verilen kullanıcı için geçerli bir JWT üretir.
func Token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(Config().JWTSecret, user)
	require.NoError(t, err)
	return token
}

// Request JSON gövdeyle istek atar; token boşsa Authorization header konmaz.
func Request(t *testing.T, app *fiber.App, method, target string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Decode yanıt gövdesini verilen hedefe çözer.
func Decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
