package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ClientHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewClientHandler(db *gorm.DB, log *zap.Logger) *ClientHandler {
	return &ClientHandler{db: db, log: log}
}

// ======================================================
// LIST CLIENTS (ADMIN)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("role = ?", models.RoleClient)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var clients []models.User
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		h.log.Error("list clients failed", zap.Error(err))
		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}
