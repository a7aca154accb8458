package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/cache"
	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/middleware"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/validators"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache
}

func NewWorkingHoursHandler(db *gorm.DB, cache *cache.AvailabilityCache) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, cache: cache}
}

type WorkingHourEntry struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
	Active     bool   `json:"active"`
}

type UpdateWorkingHoursRequest struct {
	Entries []WorkingHourEntry `json:"entries" binding:"required,dive"`
}

// ======================================================
// GET WORKING HOURS (do barbeiro autenticado)
// ======================================================
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var hours []models.WorkingHours
	if err := h.db.
		Where("barber_id = ?", userID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Erro ao buscar horários de atendimento.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// ======================================================
// UPDATE WORKING HOURS (substitui a semana inteira)
// ======================================================
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	seen := make(map[int]bool)
	for _, e := range req.Entries {
		if seen[e.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Dia da semana repetido na requisição.")
			return
		}
		seen[e.Weekday] = true

		if !validators.IsHourMinute(e.StartTime) || !validators.IsHourMinute(e.EndTime) {
			httperr.BadRequest(c, "invalid_time_format", "Horário deve estar no formato HH:mm.")
			return
		}
		if e.StartTime >= e.EndTime {
			httperr.BadRequest(c, "invalid_time_range", "Horário de abertura deve ser antes do fechamento.")
			return
		}

		// Almoço é opcional, mas vem em par.
		if (e.LunchStart == "") != (e.LunchEnd == "") {
			httperr.BadRequest(c, "invalid_lunch_range", "Informe início e fim do almoço, ou nenhum dos dois.")
			return
		}
		if e.LunchStart != "" {
			if !validators.IsHourMinute(e.LunchStart) || !validators.IsHourMinute(e.LunchEnd) {
				httperr.BadRequest(c, "invalid_time_format", "Horário deve estar no formato HH:mm.")
				return
			}
			if e.LunchStart >= e.LunchEnd || e.LunchStart < e.StartTime || e.LunchEnd > e.EndTime {
				httperr.BadRequest(c, "invalid_lunch_range", "Intervalo de almoço deve estar dentro do expediente.")
				return
			}
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barber_id = ?", userID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		for _, e := range req.Entries {
			wh := models.WorkingHours{
				BarberID:   userID,
				Weekday:    e.Weekday,
				StartTime:  e.StartTime,
				EndTime:    e.EndTime,
				LunchStart: e.LunchStart,
				LunchEnd:   e.LunchEnd,
				Active:     e.Active,
			}
			if err := tx.Create(&wh).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		httperr.Internal(c, "failed_to_update_working_hours", "Erro ao salvar horários de atendimento.")
		return
	}

	// Horários mudaram, slots em cache já não valem.
	if h.cache != nil {
		barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
		h.cache.InvalidateBarber(c.Request.Context(), barbershopID, userID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Horários atualizados com sucesso."})
}
