package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BarberHandler struct {
	db       *gorm.DB
	uploader ImageUploader
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewBarberHandler(db *gorm.DB, uploader ImageUploader, audit *audit.Dispatcher, log *zap.Logger) *BarberHandler {
	return &BarberHandler{db: db, uploader: uploader, audit: audit, log: log}
}

type CreateBarberRequest struct {
	Name   string   `json:"name" binding:"required,max=100"`
	Rating *float64 `json:"rating,omitempty" binding:"omitempty,min=0,max=5"`
}

type UpdateBarberRequest struct {
	Name   *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Rating *float64 `json:"rating,omitempty" binding:"omitempty,min=0,max=5"`
}

func (h *BarberHandler) List(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.Order("name ASC").Find(&barbers).Error; err != nil {
		h.log.Error("list barbers failed", zap.Error(err))
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	httpresp.List(c, barbers)
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	barber := models.Barber{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(req.Name),
		Rating: 5.0,
	}
	if req.Rating != nil {
		barber.Rating = *req.Rating
	}

	if err := h.db.Create(&barber).Error; err != nil {
		h.log.Error("create barber failed", zap.Error(err))
		httperr.Internal(c, "failed_to_create_barber", "Erro ao criar barbeiro.")
		return
	}

	h.dispatch(c, "barber_created", barber.ID, nil)
	httpresp.Created(c, barber)
}

func (h *BarberHandler) Update(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if req.Name != nil {
		barber.Name = strings.TrimSpace(*req.Name)
	}
	if req.Rating != nil {
		barber.Rating = *req.Rating
	}

	if err := h.db.Save(barber).Error; err != nil {
		h.log.Error("update barber failed", zap.Error(err))
		httperr.Internal(c, "failed_to_update_barber", "Erro ao atualizar barbeiro.")
		return
	}

	h.dispatch(c, "barber_updated", barber.ID, nil)
	httpresp.OK(c, barber)
}

// Delete é lógico; agendamentos antigos continuam apontando para o id.
func (h *BarberHandler) Delete(c *gin.Context) {
	barber, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.Delete(barber).Error; err != nil {
		h.log.Error("delete barber failed", zap.Error(err))
		httperr.Internal(c, "failed_to_delete_barber", "Erro ao remover barbeiro.")
		return
	}

	h.dispatch(c, "barber_deleted", barber.ID, nil)
	c.Status(http.StatusNoContent)
}

func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	if h.uploader == nil {
		httperr.Unavailable(c, "media_disabled", "Upload de imagens não configurado.", 30*time.Second)
		return
	}

	barber, ok := h.load(c)
	if !ok {
		return
	}

	url, ok := uploadImage(c, h.uploader, h.log, "barbers", barber.ID)
	if !ok {
		return
	}

	if err := h.db.Model(barber).Update("avatar_url", url).Error; err != nil {
		h.log.Error("save barber avatar failed", zap.Error(err))
		httperr.Internal(c, "failed_to_update_barber", "Erro ao atualizar barbeiro.")
		return
	}

	barber.AvatarURL = url
	h.dispatch(c, "barber_avatar_updated", barber.ID, map[string]any{"avatar_url": url})
	httpresp.OK(c, barber)
}

func (h *BarberHandler) load(c *gin.Context) (*models.Barber, bool) {
	var barber models.Barber
	if err := h.db.Where("id = ?", c.Param("id")).First(&barber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
			return nil, false
		}
		h.log.Error("load barber failed", zap.Error(err))
		httperr.Internal(c, "failed_to_get_barber", "Erro ao buscar barbeiro.")
		return nil, false
	}
	return &barber, true
}

func (h *BarberHandler) dispatch(c *gin.Context, action, id string, meta any) {
	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   action,
		Entity:   "barber",
		EntityID: id,
		Metadata: meta,
	})
}
