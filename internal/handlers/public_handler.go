package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/navalhatech/agenda-api/internal/domain/appointment"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/timezone"
	usecase "github.com/navalhatech/agenda-api/internal/usecase/appointment"
	"github.com/navalhatech/agenda-api/internal/validators"
)

// PublicHandler atende o fluxo do cliente final, identificado pelo slug
// da barbearia. Nenhuma rota aqui exige autenticação.
type PublicHandler struct {
	db             *gorm.DB
	createUC       *usecase.CreateAppointment
	checkUC        *usecase.CheckConflicts
	availabilityUC *usecase.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	createUC *usecase.CreateAppointment,
	checkUC *usecase.CheckConflicts,
	availabilityUC *usecase.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		createUC:       createUC,
		checkUC:        checkUC,
		availabilityUC: availabilityUC,
	}
}

func (h *PublicHandler) shopBySlug(c *gin.Context) (*models.Barbershop, bool) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "Erro interno ao buscar barbearia.")
		return nil, false
	}

	return &shop, true
}

// ======================================================
// GET /public/:slug — dados da barbearia
// ======================================================
func (h *PublicHandler) GetBarbershop(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      shop.ID,
		"name":    shop.Name,
		"slug":    shop.Slug,
		"phone":   shop.Phone,
		"address": shop.Address,
	})
}

// ======================================================
// GET /public/:slug/services
// ======================================================
func (h *PublicHandler) ListServices(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("barbershop_id = ? AND active = ?", shop.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, services)
}

// ======================================================
// GET /public/:slug/barbers
// ======================================================
func (h *PublicHandler) ListBarbers(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var barbers []models.User
	if err := h.db.
		Select("id", "name", "photo_url").
		Where("barbershop_id = ?", shop.ID).
		Order("name ASC").
		Find(&barbers).Error; err != nil {

		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar profissionais.")
		return
	}

	out := make([]gin.H, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, gin.H{
			"id":        b.ID,
			"name":      b.Name,
			"photo_url": b.PhotoURL,
		})
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// GET /public/:slug/availability?barber_id=&service_id=&date=
// ======================================================
func (h *PublicHandler) GetAvailability(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Informe service_id válido.")
		return
	}

	dateStr := c.Query("date")
	if !validators.IsDate(dateStr) {
		httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
		return
	}

	date, err := timezone.ParseDate(dateStr, shop.Timezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
		return
	}

	// Sem barber_id, os slots são do profissional padrão (dono).
	var barberID uint
	if raw := c.Query("barber_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Informe barber_id válido.")
			return
		}
		barberID = uint(id)
	} else {
		var owner models.User
		if err := h.db.
			Where("barbershop_id = ? AND role = ?", shop.ID, "owner").
			First(&owner).Error; err != nil {
			httperr.NotFound(c, "barber_not_found", "Profissional não encontrado.")
			return
		}
		barberID = owner.ID
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarbershopID: shop.ID,
		BarberID:     barberID,
		ServiceID:    uint(serviceID),
		Date:         date,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// POST /public/:slug/check — disponibilidade de um horário
// ======================================================
func (h *PublicHandler) CheckConflicts(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

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
		BarbershopID: shop.ID,
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
// POST /public/:slug/appointments
// ======================================================
func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if !validators.IsDate(req.Date) || !validators.IsHourMinute(req.Time) {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou horário inválido.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		BarbershopID: shop.ID,
		BarberID:     req.BarberID,
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

	c.JSON(http.StatusCreated, gin.H{
		"id":         ap.ID,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
		"status":     ap.Status,
		"message":    "Agendamento solicitado com sucesso.",
	})
}
