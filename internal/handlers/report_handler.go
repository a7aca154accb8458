package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/middleware"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/timezone"
	"github.com/navalhatech/agenda-api/internal/usecase/report"
	"github.com/navalhatech/agenda-api/internal/validators"
)

type ReportHandler struct {
	db        *gorm.DB
	financial *report.FinancialReport
}

func NewReportHandler(db *gorm.DB, financial *report.FinancialReport) *ReportHandler {
	return &ReportHandler{db: db, financial: financial}
}

func (h *ReportHandler) shopTimezone(barbershopID uint) string {
	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		return timezone.DefaultTimezone
	}
	return shop.Timezone
}

// ======================================================
// GET /reports/daily?date=YYYY-MM-DD
// ======================================================
func (h *ReportHandler) Daily(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	dateStr := c.Query("date")
	if !validators.IsDate(dateStr) {
		httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
		return
	}

	tz := h.shopTimezone(barbershopID)
	from, err := timezone.ParseDate(dateStr, tz)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data deve estar no formato YYYY-MM-DD.")
		return
	}
	to := from.Add(24 * time.Hour)

	summary, err := h.financial.Execute(c.Request.Context(), barbershopID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_build_report", "Erro ao gerar relatório financeiro.")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ======================================================
// GET /reports/monthly?year=2026&month=8
// ======================================================
func (h *ReportHandler) Monthly(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Informe year e month válidos.")
		return
	}

	tz := h.shopTimezone(barbershopID)
	loc := timezone.Location(tz)

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)

	summary, err := h.financial.Execute(c.Request.Context(), barbershopID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_build_report", "Erro ao gerar relatório financeiro.")
		return
	}

	c.JSON(http.StatusOK, summary)
}
