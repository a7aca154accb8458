package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/httpresp"
	"github.com/navalhatech/agenda-api/internal/middleware"
	"github.com/navalhatech/agenda-api/internal/timezone"
	usecase "github.com/navalhatech/agenda-api/internal/usecase/appointment"
	"github.com/navalhatech/agenda-api/internal/validators"
)

type AppointmentHandler struct {
	createUC     *usecase.CreateAppointment
	rescheduleUC *usecase.RescheduleAppointment
	cancelUC     *usecase.CancelAppointment
	completeUC   *usecase.CompleteAppointment
	confirmUC    *usecase.ConfirmAppointment
	startUC      *usecase.StartAppointment
	checkUC      *usecase.CheckConflicts
	listByDateUC *usecase.ListAppointmentsByDate
	listByMonth  *usecase.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	createUC *usecase.CreateAppointment,
	rescheduleUC *usecase.RescheduleAppointment,
	cancelUC *usecase.CancelAppointment,
	completeUC *usecase.CompleteAppointment,
	confirmUC *usecase.ConfirmAppointment,
	startUC *usecase.StartAppointment,
	checkUC *usecase.CheckConflicts,
	listByDateUC *usecase.ListAppointmentsByDate,
	listByMonth *usecase.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:     createUC,
		rescheduleUC: rescheduleUC,
		cancelUC:     cancelUC,
		completeUC:   completeUC,
		confirmUC:    confirmUC,
		startUC:      startUC,
		checkUC:      checkUC,
		listByDateUC: listByDateUC,
		listByMonth:  listByMonth,
	}
}

// ======================================================
// ERROR MAPPING
// ======================================================

// writeUsecaseError traduz erros de negócio para HTTP. Conflitos de
// agenda saem como 409 com a lista de descritores.
func writeUsecaseError(c *gin.Context, err error) {
	var ce *usecase.ConflictError
	if errors.As(err, &ce) {
		c.JSON(http.StatusConflict, gin.H{
			"error_code": "booking_conflict",
			"message":    "Horário indisponível.",
			"conflicts":  ce.Conflicts,
		})
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case "barbershop_not_found":
			httperr.NotFound(c, be.Code, "Barbearia não encontrada.")
		case "appointment_not_found":
			httperr.NotFound(c, be.Code, "Agendamento não encontrado.")
		case "service_not_found":
			httperr.NotFound(c, be.Code, "Serviço não encontrado.")
		case "barber_not_found":
			httperr.NotFound(c, be.Code, "Profissional não encontrado.")
		case "invalid_date_or_time":
			httperr.BadRequest(c, be.Code, "Data ou horário inválido.")
		case "too_soon":
			httperr.Write(c, http.StatusUnprocessableEntity, be.Code,
				"Agendamento precisa respeitar a antecedência mínima da barbearia.")
		case "invalid_state":
			httperr.Conflict(c, be.Code, "Status atual do agendamento não permite essa operação.")
		case "time_conflict":
			httperr.Conflict(c, be.Code, "Horário já reservado.")
		default:
			httperr.BadRequest(c, be.Code, "Operação inválida.")
		}
		return
	}

	httperr.Internal(c, "internal_error", "Erro interno ao processar a requisição.")
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID *uint `json:"barber_id"`

	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	ServiceID uint `json:"service_id" binding:"required"`

	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
	Notes string `json:"notes"`
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type CheckConflictsRequest struct {
	BarberID *uint  `json:"barber_id"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
}

// ======================================================
// CREATE (agenda interna do barbeiro)
// ======================================================
func (h *AppointmentHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if !validators.IsDate(req.Date) || !validators.IsHourMinute(req.Time) {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou horário inválido.")
		return
	}

	// Pela agenda interna, sem barbeiro escolhido o atendimento é do
	// próprio usuário logado.
	barberID := req.BarberID
	if barberID == nil {
		barberID = &userID
	}

	ap, err := h.createUC.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		BarbershopID: barbershopID,
		BarberID:     barberID,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		ClientEmail:  req.ClientEmail,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// CHECK CONFLICTS
// ======================================================
func (h *AppointmentHandler) CheckConflicts(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CheckConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if !validators.IsDate(req.Date) || !validators.IsHourMinute(req.Time) {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou horário inválido.")
		return
	}

	conflicts, err := h.checkUC.Execute(c.Request.Context(), usecase.CheckConflictsInput{
		BarbershopID: barbershopID,
		Date:         req.Date,
		Time:         req.Time,
		BarberID:     req.BarberID,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available": len(conflicts) == 0,
		"conflicts": conflicts,
	})
}

// ======================================================
// LIST BY DATE (?date=YYYY-MM-DD)
// ======================================================
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	dateStr := c.Query("date")
	if !validators.IsDate(dateStr) {
		httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
		return
	}

	date, err := timezone.ParseDate(dateStr, timezone.DefaultTimezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
		return
	}

	list, err := h.listByDateUC.Execute(c.Request.Context(), userID, barbershopID, date)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// LIST BY MONTH (?year=2026&month=8)
// ======================================================
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Informe year e month válidos.")
		return
	}

	list, err := h.listByMonth.Execute(c.Request.Context(), userID, barbershopID, year, month)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.stateChange(c, func(barbershopID, userID, apID uint) (any, error) {
		return h.confirmUC.Execute(c.Request.Context(), barbershopID, userID, apID)
	})
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.stateChange(c, func(barbershopID, userID, apID uint) (any, error) {
		return h.startUC.Execute(c.Request.Context(), barbershopID, userID, apID)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.stateChange(c, func(barbershopID, userID, apID uint) (any, error) {
		return h.completeUC.Execute(c.Request.Context(), barbershopID, userID, apID)
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.stateChange(c, func(barbershopID, userID, apID uint) (any, error) {
		return h.cancelUC.Execute(c.Request.Context(), barbershopID, userID, apID)
	})
}

func (h *AppointmentHandler) stateChange(
	c *gin.Context,
	fn func(barbershopID, userID, apID uint) (any, error),
) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	apID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "ID de agendamento inválido.")
		return
	}

	ap, err := fn(barbershopID, userID, uint(apID))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	apID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "ID de agendamento inválido.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if !validators.IsDate(req.Date) || !validators.IsHourMinute(req.Time) {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou horário inválido.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), usecase.RescheduleAppointmentInput{
		BarbershopID:  barbershopID,
		AppointmentID: uint(apID),
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
