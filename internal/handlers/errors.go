package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type businessResponse struct {
	status  int
	message string
}

var businessResponses = map[string]businessResponse{
	"service_not_found":      {http.StatusNotFound, "Serviço não encontrado."},
	"barber_not_found":       {http.StatusNotFound, "Barbeiro não encontrado."},
	"client_not_found":       {http.StatusNotFound, "Cliente não encontrado."},
	"appointment_not_found":  {http.StatusNotFound, "Agendamento não encontrado."},
	"slot_unavailable":       {http.StatusConflict, "Horário indisponível. Atualize e escolha outro horário."},
	"invalid_state":          {http.StatusConflict, "O agendamento não permite essa alteração."},
	"past_booking":           {http.StatusBadRequest, "Não é possível agendar um horário que já passou."},
	"invalid_duration":       {http.StatusBadRequest, "Duração do serviço inválida."},
	"invalid_input":          {http.StatusBadRequest, "Dados inválidos."},
	"invalid_payment_method": {http.StatusBadRequest, "Forma de pagamento inválida."},
}

// scheduleBusyRetry é o Retry-After sugerido quando a agenda está travada.
const scheduleBusyRetry = 2 * time.Second

// writeError traduz o erro de um caso de uso em resposta HTTP. Erros de
// negócio não são logados como erro; o resto é falha de infraestrutura.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		resp, known := businessResponses[code]
		if !known {
			resp = businessResponse{http.StatusBadRequest, "Requisição inválida."}
		}
		httperr.Write(c, resp.status, code, resp.message)
		return
	}

	if errors.Is(err, domain.ErrScheduleBusy) {
		httperr.Unavailable(c, "schedule_busy", "Agenda ocupada no momento. Tente novamente.", scheduleBusyRetry)
		return
	}

	log.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	httperr.Unavailable(c, "service_unavailable", "Serviço temporariamente indisponível.", 5*time.Second)
}

func writeBindError(c *gin.Context, err error) {
	errs := validators.ValidationErrors(err)
	httperr.BadRequest(c, "invalid_request", validators.FormatValidationErrors(errs))
}
