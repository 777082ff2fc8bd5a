package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestClientHandler_ListFiltersClients(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tag := uuid.NewString()[:8]
	users := []models.User{
		{ID: uuid.NewString(), Name: "Maria " + tag, Email: "maria-" + tag + "@barber.com", PasswordHash: "x", Role: models.RoleClient},
		{ID: uuid.NewString(), Name: "Pedro " + tag, Email: "pedro-" + tag + "@barber.com", PasswordHash: "x", Role: models.RoleClient},
		{ID: uuid.NewString(), Name: "Admin " + tag, Email: "admin-" + tag + "@barber.com", PasswordHash: "x", Role: models.RoleAdmin},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("create users: %v", err)
	}
	t.Cleanup(func() {
		for i := range users {
			db.Delete(&users[i])
		}
	})

	r := gin.New()
	r.GET("/api/clients", NewClientHandler(db, zap.NewNop()).List)

	list := func(query string) []models.User {
		req := httptest.NewRequest(http.MethodGet, "/api/clients?query="+query, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp struct {
			Data []models.User `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.Data
	}

	if got := list(tag); len(got) != 2 {
		t.Fatalf("expected the 2 clients tagged %s, got %d", tag, len(got))
	}
	if got := list("PEDRO-" + tag); len(got) != 1 || got[0].Name != "Pedro "+tag {
		t.Fatalf("email filter should be case-insensitive, got %+v", got)
	}
}
