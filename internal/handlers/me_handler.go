package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type MeHandler struct {
	db           *gorm.DB
	appointments *ucAppointment.ListClientAppointments
	log          *zap.Logger
}

func NewMeHandler(
	db *gorm.DB,
	appointments *ucAppointment.ListClientAppointments,
	log *zap.Logger,
) *MeHandler {
	return &MeHandler{db: db, appointments: appointments, log: log}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var user models.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return
		}
		h.log.Error("load user failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Appointments devolve os agendamentos do usuário logado e o total de
// atendimentos concluídos.
func (h *MeHandler) Appointments(c *gin.Context) {
	out, err := h.appointments.Execute(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
