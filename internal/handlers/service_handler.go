package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// maxUploadBytes limita o tamanho das imagens enviadas.
const maxUploadBytes = 5 << 20

// ImageUploader converte e publica imagens de catálogo.
type ImageUploader interface {
	Upload(ctx context.Context, folder, ownerID string, r io.Reader) (string, error)
}

type ServiceHandler struct {
	db       *gorm.DB
	uploader ImageUploader
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewServiceHandler(db *gorm.DB, uploader ImageUploader, audit *audit.Dispatcher, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{db: db, uploader: uploader, audit: audit, log: log}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required,max=100"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty" binding:"omitempty,max=100"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty" binding:"omitempty,gt=0"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Service{})
	if query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+query+"%")
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		h.log.Error("list services failed", zap.Error(err))
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Preço inválido.")
		return
	}

	service := models.Service{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	}

	if err := h.db.Create(&service).Error; err != nil {
		h.log.Error("create service failed", zap.Error(err))
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	h.dispatch(c, "service_created", service.ID, nil)
	httpresp.Created(c, service)
}

// Update altera o catálogo. Agendamentos existentes mantêm o preço
// reservado, mas passam a ocupar a agenda com a nova duração.
func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	changes := map[string]any{}
	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
		changes["name"] = service.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Preço inválido.")
			return
		}
		service.Price = *req.Price
		changes["price"] = service.Price.StringFixed(2)
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
		changes["duration_minutes"] = service.DurationMinutes
	}

	if err := h.db.Save(service).Error; err != nil {
		h.log.Error("update service failed", zap.Error(err))
		httperr.Internal(c, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	h.dispatch(c, "service_updated", service.ID, changes)
	httpresp.OK(c, service)
}

// Delete é lógico: o serviço some do catálogo e deixa de ser reservável.
func (h *ServiceHandler) Delete(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.Delete(service).Error; err != nil {
		h.log.Error("delete service failed", zap.Error(err))
		httperr.Internal(c, "failed_to_delete_service", "Erro ao remover serviço.")
		return
	}

	h.dispatch(c, "service_deleted", service.ID, nil)
	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		httperr.Unavailable(c, "media_disabled", "Upload de imagens não configurado.", 30*time.Second)
		return
	}

	service, ok := h.load(c)
	if !ok {
		return
	}

	url, ok := uploadImage(c, h.uploader, h.log, "services", service.ID)
	if !ok {
		return
	}

	if err := h.db.Model(service).Update("image", url).Error; err != nil {
		h.log.Error("save service image failed", zap.Error(err))
		httperr.Internal(c, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	service.Image = url
	h.dispatch(c, "service_image_updated", service.ID, map[string]any{"image": url})
	httpresp.OK(c, service)
}

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	var service models.Service
	if err := h.db.Where("id = ?", c.Param("id")).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return nil, false
		}
		h.log.Error("load service failed", zap.Error(err))
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return nil, false
	}
	return &service, true
}

func (h *ServiceHandler) dispatch(c *gin.Context, action, id string, meta any) {
	h.audit.Dispatch(audit.Event{
		ActorID:  c.GetString(middleware.ContextUserID),
		Action:   action,
		Entity:   "service",
		EntityID: id,
		Metadata: meta,
	})
}

// uploadImage lê o campo "file" do multipart e publica a imagem.
func uploadImage(c *gin.Context, uploader ImageUploader, log *zap.Logger, folder, ownerID string) (string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Envie a imagem no campo \"file\" (até 5 MB).")
		return "", false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_file", "Arquivo inválido.")
		return "", false
	}
	defer f.Close()

	url, err := uploader.Upload(c.Request.Context(), folder, ownerID, f)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			httperr.BadRequest(c, "unsupported_image", "Formato de imagem não suportado. Use JPEG, PNG ou WebP.")
			return "", false
		}
		log.Error("image upload failed", zap.String("folder", folder), zap.Error(err))
		httperr.Unavailable(c, "upload_failed", "Não foi possível enviar a imagem.", 5*time.Second)
		return "", false
	}

	return url, true
}
