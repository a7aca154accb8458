package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/cache"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/middleware"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/validators"
)

type BlackoutHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache
}

func NewBlackoutHandler(db *gorm.DB, cache *cache.AvailabilityCache) *BlackoutHandler {
	return &BlackoutHandler{db: db, cache: cache}
}

type CreateBlackoutRequest struct {
	BarberID  *uint  `json:"barber_id"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
	StartHour string `json:"start_hour"`
	EndHour   string `json:"end_hour"`
	Reason    string `json:"reason"`
}

// ======================================================
// LIST BLACKOUTS
// ======================================================
func (h *BlackoutHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	q := h.db.Where("barbershop_id = ?", barbershopID)

	if from := c.Query("from"); from != "" {
		if !validators.IsDate(from) {
			httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
			return
		}
		q = q.Where("end_date >= ?", from)
	}

	var blackouts []models.Blackout
	if err := q.Order("start_date ASC").Find(&blackouts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_blackouts", "Erro ao listar bloqueios de agenda.")
		return
	}

	c.JSON(http.StatusOK, blackouts)
}

// ======================================================
// CREATE BLACKOUT
// ======================================================
func (h *BlackoutHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateBlackoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if !validators.IsDate(req.StartDate) {
		httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
		return
	}

	// Sem end_date, o bloqueio é de um único dia.
	if req.EndDate == "" {
		req.EndDate = req.StartDate
	}
	if !validators.IsDate(req.EndDate) {
		httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
		return
	}
	if req.EndDate < req.StartDate {
		httperr.BadRequest(c, "invalid_date_range", "Data final deve ser igual ou posterior à data inicial.")
		return
	}

	// Janela de horas é opcional, mas vem em par.
	if (req.StartHour == "") != (req.EndHour == "") {
		httperr.BadRequest(c, "invalid_hour_range", "Informe hora inicial e final, ou nenhuma das duas.")
		return
	}
	if req.StartHour != "" {
		if !validators.IsHourMinute(req.StartHour) || !validators.IsHourMinute(req.EndHour) {
			httperr.BadRequest(c, "invalid_time_format", "Horário deve estar no formato HH:mm.")
			return
		}
		if req.StartHour >= req.EndHour {
			httperr.BadRequest(c, "invalid_hour_range", "Hora inicial deve ser antes da hora final.")
			return
		}
	}

	if req.BarberID != nil {
		var count int64
		h.db.Model(&models.User{}).
			Where("id = ? AND barbershop_id = ?", *req.BarberID, barbershopID).
			Count(&count)
		if count == 0 {
			httperr.NotFound(c, "barber_not_found", "Profissional não encontrado nesta barbearia.")
			return
		}
	}

	blackout := models.Blackout{
		BarbershopID: barbershopID,
		BarberID:     req.BarberID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		StartHour:    req.StartHour,
		EndHour:      req.EndHour,
		Reason:       req.Reason,
	}

	if err := h.db.Create(&blackout).Error; err != nil {
		httperr.Internal(c, "failed_to_create_blackout", "Erro ao criar bloqueio de agenda.")
		return
	}

	if h.cache != nil {
		h.cache.InvalidateShop(c.Request.Context(), barbershopID)
	}

	c.JSON(http.StatusCreated, blackout)
}

// ======================================================
// DELETE BLACKOUT
// ======================================================
func (h *BlackoutHandler) Delete(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	blackoutID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_blackout_id", "ID de bloqueio inválido.")
		return
	}

	res := h.db.
		Where("id = ? AND barbershop_id = ?", blackoutID, barbershopID).
		Delete(&models.Blackout{})

	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_blackout", "Erro ao remover bloqueio de agenda.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "blackout_not_found", "Bloqueio não encontrado.")
		return
	}

	if h.cache != nil {
		h.cache.InvalidateShop(c.Request.Context(), barbershopID)
	}

	c.Status(http.StatusNoContent)
}
