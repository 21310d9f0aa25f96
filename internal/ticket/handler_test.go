package ticket_test

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

func ticketBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "Açıklama metni",
		"priority":    "Medium",
	}
}

func seedTicket(t *testing.T, createdBy uint, title string) *models.Ticket {
	t.Helper()
	tk := &models.Ticket{
		Title:       title,
		Description: "Açıklama",
		Status:      models.TicketStatusOpen,
		Priority:    models.PriorityMedium,
		CreatedBy:   createdBy,
	}
	require.NoError(t, database.DB.Create(tk).Error)
	return tk
}

func TestTicketCreateForcesCreator(t *testing.T) {
	app := testutil.SetupApp(t)
	user := testutil.CreateUser(t, "Mehmet", "mehmet@firma.com")
	other := testutil.CreateUser(t, "Ali", "ali@firma.com")
	token := testutil.Token(t, user)

	// İstemcinin gönderdiği created_by/status alanları dikkate alınmaz
	body := ticketBody("Ekran arızası")
	body["created_by"] = other.ID
	body["status"] = "Closed"

	resp := testutil.Request(t, app, http.MethodPost, "/tickets", body, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID        uint   `json:"id"`
		CreatedBy uint   `json:"created_by"`
		Status    string `json:"status"`
		Creator   struct {
			Name string `json:"name"`
		} `json:"creator"`
	}
	testutil.Decode(t, resp, &created)
	assert.Equal(t, user.ID, created.CreatedBy)
	assert.Equal(t, "Open", created.Status)
	assert.Equal(t, "Mehmet", created.Creator.Name)
}

func TestTicketCreateValidation(t *testing.T) {
	app := testutil.SetupApp(t)
	user := testutil.CreateUser(t, "Mehmet", "mehmet@firma.com")
	token := testutil.Token(t, user)

	resp := testutil.Request(t, app, http.MethodPost, "/tickets", map[string]interface{}{}, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var ve struct {
		Errors map[string]string `json:"errors"`
	}
	testutil.Decode(t, resp, &ve)
	assert.Contains(t, ve.Errors, "title")
	assert.Contains(t, ve.Errors, "description")
	assert.Contains(t, ve.Errors, "priority")

	body := ticketBody("X")
	body["priority"] = "Urgent"
	resp = testutil.Request(t, app, http.MethodPost, "/tickets", body, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	testutil.Decode(t, resp, &ve)
	assert.Contains(t, ve.Errors, "priority")
}

// A'nın talebine B erişemez, admin erişir.
func TestTicketOwnership(t *testing.T) {
	app := testutil.SetupApp(t)
	userA := testutil.CreateUser(t, "A", "a@firma.com")
	userB := testutil.CreateUser(t, "B", "b@firma.com")
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")

	tk := seedTicket(t, userA.ID, "A'nın talebi")
	url := fmt.Sprintf("/tickets/%d", tk.ID)

	resp := testutil.Request(t, app, http.MethodGet, url, nil, testutil.Token(t, userB))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = testutil.Request(t, app, http.MethodGet, url, nil, testutil.Token(t, userA))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.Request(t, app, http.MethodGet, url, nil, testutil.Token(t, admin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Silme de aynı kurala tabi
	resp = testutil.Request(t, app, http.MethodDelete, url, nil, testutil.Token(t, userB))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = testutil.Request(t, app, http.MethodDelete, url, nil, testutil.Token(t, userA))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTicketNonAdminUpdateDropsAdminFields(t *testing.T) {
	app := testutil.SetupApp(t)
	user := testutil.CreateUser(t, "Mehmet", "mehmet@firma.com")
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")

	tk := seedTicket(t, user.ID, "Yazıcı çalışmıyor")
	url := fmt.Sprintf("/tickets/%d", tk.ID)

	// Admin olmayan status ve assigned_to gönderirse sessizce yok sayılır
	body := ticketBody("Yazıcı hala çalışmıyor")
	body["status"] = "Closed"
	body["assigned_to"] = admin.ID

	resp := testutil.Request(t, app, http.MethodPut, url, body, testutil.Token(t, user))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Ticket
	require.NoError(t, database.DB.First(&got, tk.ID).Error)
	assert.Equal(t, "Yazıcı hala çalışmıyor", got.Title)
	assert.Equal(t, models.TicketStatusOpen, got.Status, "status değişmemeli")
	assert.Nil(t, got.AssignedTo, "assigned_to değişmemeli")
}

func TestTicketAdminUpdateSetsAdminFields(t *testing.T) {
	app := testutil.SetupApp(t)
	user := testutil.CreateUser(t, "Mehmet", "mehmet@firma.com")
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")

	tk := seedTicket(t, user.ID, "Ağ sorunu")
	url := fmt.Sprintf("/tickets/%d", tk.ID)

	body := ticketBody("Ağ sorunu")
	body["status"] = "In Progress"
	body["assigned_to"] = admin.ID

	resp := testutil.Request(t, app, http.MethodPut, url, body, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Status   string `json:"status"`
		Assignee *struct {
			Name string `json:"name"`
		} `json:"assignee"`
	}
	testutil.Decode(t, resp, &updated)
	assert.Equal(t, "In Progress", updated.Status)
	require.NotNil(t, updated.Assignee)
	assert.Equal(t, "Admin", updated.Assignee.Name)

	// Geçersiz durum değeri reddedilir
	body["status"] = "Done"
	resp = testutil.Request(t, app, http.MethodPut, url, body, testutil.Token(t, admin))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Olmayan kullanıcıya atama reddedilir
	body["status"] = "Open"
	body["assigned_to"] = 9999
	resp = testutil.Request(t, app, http.MethodPut, url, body, testutil.Token(t, admin))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTicketListScoping(t *testing.T) {
	app := testutil.SetupApp(t)
	userA := testutil.CreateUser(t, "A", "a@firma.com")
	userB := testutil.CreateUser(t, "B", "b@firma.com")
	admin := testutil.CreateAdmin(t, "Admin", "admin@firma.com")

	seedTicket(t, userA.ID, "A-1")
	seedTicket(t, userA.ID, "A-2")
	seedTicket(t, userB.ID, "B-1")

	type listResp struct {
		Data []struct {
			Title string `json:"title"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}

	// Admin tüm talepleri görür
	resp := testutil.Request(t, app, http.MethodGet, "/tickets", nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all listResp
	testutil.Decode(t, resp, &all)
	assert.Equal(t, int64(3), all.Meta.Total)

	// Kullanıcı sadece kendi açtıklarını görür
	resp = testutil.Request(t, app, http.MethodGet, "/tickets", nil, testutil.Token(t, userA))
	var mine listResp
	testutil.Decode(t, resp, &mine)
	assert.Equal(t, int64(2), mine.Meta.Total)

	// Arama kullanıcının kapsamı içinde çalışır
	resp = testutil.Request(t, app, http.MethodGet, "/tickets?search=b-1", nil, testutil.Token(t, userA))
	var searched listResp
	testutil.Decode(t, resp, &searched)
	assert.Equal(t, int64(0), searched.Meta.Total, "başkasının talebi aramayla da görünmez")

	// Status filtresi
	resp = testutil.Request(t, app, http.MethodGet, "/tickets?status=Open", nil, testutil.Token(t, admin))
	var open listResp
	testutil.Decode(t, resp, &open)
	assert.Equal(t, int64(3), open.Meta.Total)
}

func TestTicketEditFormTechnicians(t *testing.T) {
	app := testutil.SetupApp(t)
	user := testutil.CreateUser(t, "Mehmet", "mehmet@firma.com")
	testutil.CreateAdmin(t, "Zeynep", "zeynep@firma.com")
	testutil.CreateAdmin(t, "Ahmet", "ahmet@firma.com")

	tk := seedTicket(t, user.ID, "Klavye arızası")

	resp := testutil.Request(t, app, http.MethodGet, fmt.Sprintf("/tickets/%d/edit", tk.ID), nil, testutil.Token(t, user))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var form struct {
		Technicians []struct {
			Name string `json:"name"`
		} `json:"technicians"`
		IsAdmin bool `json:"is_admin"`
	}
	testutil.Decode(t, resp, &form)
	require.Len(t, form.Technicians, 2)
	assert.Equal(t, "Ahmet", form.Technicians[0].Name, "teknisyenler isme göre sıralı")
	assert.False(t, form.IsAdmin)
}

func TestTicketNotFound(t *testing.T) {
	app := testutil.SetupApp(t)
	user := testutil.CreateUser(t, "Mehmet", "mehmet@firma.com")

	resp := testutil.Request(t, app, http.MethodGet, "/tickets/9999", nil, testutil.Token(t, user))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
