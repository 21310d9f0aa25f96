package inventory_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itops-backend/internal/database"
	"itops-backend/internal/models"
	"itops-backend/internal/testutil"
)

func itemBody(name, serial string, categoryID uint) map[string]interface{} {
	return map[string]interface{}{
		"name":          name,
		"category_id":   categoryID,
		"serial_number": serial,
		"brand":         "Dell",
		"model":         "Latitude 5440",
		"purchase_date": "2025-01-15",
		"status":        "Available",
		"location":      "Merkez Ofis",
	}
}

func createCategory(t *testing.T, name string) *models.InventoryCategory {
	t.Helper()
	cat := &models.InventoryCategory{Name: name}
	require.NoError(t, database.DB.Create(cat).Error)
	return cat
}

// Aynı seri numarası ikinci üründe reddedilir,
// kaydın kendi serisiyle güncellenmesi geçer.
func TestItemSerialNumberUniqueness(t *testing.T) {
	app := testutil.SetupApp(t)
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")
	token := testutil.Token(t, admin)
	cat := createCategory(t, "Laptops")

	resp := testutil.Request(t, app, http.MethodPost, "/inventory-items", itemBody("Laptop 1", "AB123456", cat.ID), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var first struct {
		ID uint `json:"id"`
	}
	testutil.Decode(t, resp, &first)

	// Aynı seri numarasıyla ikinci kayıt: 422 + serial_number hatası
	resp = testutil.Request(t, app, http.MethodPost, "/inventory-items", itemBody("Laptop 2", "AB123456", cat.ID), token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var ve struct {
		Errors map[string]string `json:"errors"`
	}
	testutil.Decode(t, resp, &ve)
	assert.Contains(t, ve.Errors, "serial_number")

	// Kendi serisiyle güncelleme geçer (self-exclusion)
	resp = testutil.Request(t, app, http.MethodPut, fmt.Sprintf("/inventory-items/%d", first.ID),
		itemBody("Laptop 1 Yeni", "AB123456", cat.ID), token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestItemValidation(t *testing.T) {
	app := testutil.SetupApp(t)
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")
	token := testutil.Token(t, admin)
	cat := createCategory(t, "Laptops")

	// Boş gövde: zorunlu alan hataları birlikte döner
	resp := testutil.Request(t, app, http.MethodPost, "/inventory-items", map[string]interface{}{}, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var ve struct {
		Errors map[string]string `json:"errors"`
	}
	testutil.Decode(t, resp, &ve)
	for _, field := range []string{"name", "category_id", "serial_number", "brand", "model", "purchase_date", "location"} {
		assert.Contains(t, ve.Errors, field)
	}

	// Olmayan kategori
	body := itemBody("X", "SN-1", 9999)
	resp = testutil.Request(t, app, http.MethodPost, "/inventory-items", body, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	testutil.Decode(t, resp, &ve)
	assert.Contains(t, ve.Errors, "category_id")

	// Geçersiz durum
	body = itemBody("X", "SN-1", cat.ID)
	body["status"] = "Broken"
	resp = testutil.Request(t, app, http.MethodPost, "/inventory-items", body, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	testutil.Decode(t, resp, &ve)
	assert.Contains(t, ve.Errors, "status")

	// Olmayan çalışana zimmet
	body = itemBody("X", "SN-1", cat.ID)
	body["assigned_to"] = 9999
	resp = testutil.Request(t, app, http.MethodPost, "/inventory-items", body, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	testutil.Decode(t, resp, &ve)
	assert.Contains(t, ve.Errors, "assigned_to")
}

func TestItemWarrantyDateRule(t *testing.T) {
	app := testutil.SetupApp(t)
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")
	token := testutil.Token(t, admin)
	cat := createCategory(t, "Laptops")

	// Garanti bitişi satın almadan önce: reddedilir
	body := itemBody("Laptop", "SN-W1", cat.ID)
	body["warranty_end_date"] = "2024-12-31"
	resp := testutil.Request(t, app, http.MethodPost, "/inventory-items", body, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var ve struct {
		Errors map[string]string `json:"errors"`
	}
	testutil.Decode(t, resp, &ve)
	assert.Contains(t, ve.Errors, "warranty_end_date")

	// Satın alma gününe eşit garanti bitişi geçerli
	body = itemBody("Laptop", "SN-W1", cat.ID)
	body["warranty_end_date"] = "2025-01-15"
	resp = testutil.Request(t, app, http.MethodPost, "/inventory-items", body, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

// Boş status sadece oluşturmada varsayılana düşer; güncellemede alan
// zorunludur ve mevcut durum değişmeden kalır.
func TestItemUpdateRequiresStatus(t *testing.T) {
	app := testutil.SetupApp(t)
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")
	token := testutil.Token(t, admin)
	cat := createCategory(t, "Laptops")

	body := itemBody("Laptop", "SN-S1", cat.ID)
	body["status"] = "In Repair"
	resp := testutil.Request(t, app, http.MethodPost, "/inventory-items", body, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID uint `json:"id"`
	}
	testutil.Decode(t, resp, &created)

	upd := itemBody("Laptop", "SN-S1", cat.ID)
	delete(upd, "status")
	resp = testutil.Request(t, app, http.MethodPut, fmt.Sprintf("/inventory-items/%d", created.ID), upd, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var ve struct {
		Errors map[string]string `json:"errors"`
	}
	testutil.Decode(t, resp, &ve)
	assert.Contains(t, ve.Errors, "status")

	var got models.InventoryItem
	require.NoError(t, database.DB.First(&got, created.ID).Error)
	assert.Equal(t, models.ItemStatusInRepair, got.Status, "durum değişmemeli")
}

func TestItemCreateDefaultsAndEagerLoad(t *testing.T) {
	app := testutil.SetupApp(t)
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")
	token := testutil.Token(t, admin)
	cat := createCategory(t, "Laptops")

	emp := models.Employee{Name: "Zimmetli", Email: "zimmet@firma.com"}
	require.NoError(t, database.DB.Create(&emp).Error)

	body := itemBody("Laptop", "SN-D1", cat.ID)
	delete(body, "status") // boş status varsayılana düşer
	body["assigned_to"] = emp.ID

	resp := testutil.Request(t, app, http.MethodPost, "/inventory-items", body, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Yanıt ilişkileriyle birlikte döner, ikinci sorgu gerekmez
	var created struct {
		Status   string `json:"status"`
		Category struct {
			Name string `json:"name"`
		} `json:"category"`
		AssignedEmployee *struct {
			Name string `json:"name"`
		} `json:"assigned_employee"`
	}
	testutil.Decode(t, resp, &created)
	assert.Equal(t, "Available", created.Status)
	assert.Equal(t, "Laptops", created.Category.Name)
	require.NotNil(t, created.AssignedEmployee)
	assert.Equal(t, "Zimmetli", created.AssignedEmployee.Name)
}

func TestItemListFilters(t *testing.T) {
	app := testutil.SetupApp(t)
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")
	token := testutil.Token(t, admin)

	laptops := createCategory(t, "Laptops")
	monitors := createCategory(t, "Monitors")

	seed := []models.InventoryItem{
		{Name: "Latitude", CategoryID: laptops.ID, SerialNumber: "L-1", Brand: "Dell", Model: "5440", Status: models.ItemStatusAvailable, Location: "Depo"},
		{Name: "ThinkPad", CategoryID: laptops.ID, SerialNumber: "L-2", Brand: "Lenovo", Model: "T14", Status: models.ItemStatusAssigned, Location: "Depo"},
		{Name: "UltraSharp", CategoryID: monitors.ID, SerialNumber: "M-1", Brand: "Dell", Model: "U2723", Status: models.ItemStatusAvailable, Location: "Depo"},
	}
	for i := range seed {
		require.NoError(t, database.DB.Create(&seed[i]).Error)
	}

	type listResp struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}

	// Filtresiz liste = tüm kayıtlar (identity)
	resp := testutil.Request(t, app, http.MethodGet, "/inventory-items", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all listResp
	testutil.Decode(t, resp, &all)
	assert.Equal(t, int64(3), all.Meta.Total)

	// Marka araması (OR grubu) + status filtresi (AND)
	resp = testutil.Request(t, app, http.MethodGet, "/inventory-items?search=dell&status=Available", nil, token)
	var filtered listResp
	testutil.Decode(t, resp, &filtered)
	assert.Equal(t, int64(2), filtered.Meta.Total)

	// Kategori filtresi
	resp = testutil.Request(t, app, http.MethodGet, fmt.Sprintf("/inventory-items?category=%d", monitors.ID), nil, token)
	var byCat listResp
	testutil.Decode(t, resp, &byCat)
	require.Equal(t, int64(1), byCat.Meta.Total)
	assert.Equal(t, "UltraSharp", byCat.Data[0].Name)

	// Aralık dışı sayfa boş döner
	resp = testutil.Request(t, app, http.MethodGet, "/inventory-items?page=4", nil, token)
	var overflow listResp
	testutil.Decode(t, resp, &overflow)
	assert.Empty(t, overflow.Data)
	assert.Equal(t, int64(3), overflow.Meta.Total)
}

func TestItemFormOptions(t *testing.T) {
	app := testutil.SetupApp(t)
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")
	token := testutil.Token(t, admin)

	createCategory(t, "Laptops")
	require.NoError(t, database.DB.Create(&models.Employee{Name: "Ali", Email: "ali@firma.com"}).Error)

	resp := testutil.Request(t, app, http.MethodGet, "/inventory-items/create", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var form struct {
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Employees []struct {
			Name string `json:"name"`
		} `json:"employees"`
	}
	testutil.Decode(t, resp, &form)
	require.Len(t, form.Categories, 1)
	require.Len(t, form.Employees, 1)
}
