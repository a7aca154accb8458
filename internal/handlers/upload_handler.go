package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/httperr"
	"github.com/navalhatech/agenda-api/internal/middleware"
	"github.com/navalhatech/agenda-api/internal/models"
	"github.com/navalhatech/agenda-api/internal/storage"
)

const maxUploadBytes = 8 << 20 // 8 MB

type UploadHandler struct {
	db    *gorm.DB
	media *storage.MediaStore
}

func NewUploadHandler(db *gorm.DB, media *storage.MediaStore) *UploadHandler {
	return &UploadHandler{db: db, media: media}
}

func (h *UploadHandler) readPhoto(c *gin.Context) ([]byte, bool) {
	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Envie o arquivo no campo 'photo'.")
		return nil, false
	}
	defer file.Close()

	data, err := storage.NormalizePhoto(http.MaxBytesReader(c.Writer, file, maxUploadBytes))
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Imagem inválida. Envie JPEG ou PNG.")
		return nil, false
	}

	return data, true
}

// ======================================================
// POST /me/photo — foto do profissional logado
// ======================================================
func (h *UploadHandler) UploadMyPhoto(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	data, ok := h.readPhoto(c)
	if !ok {
		return
	}

	url, err := h.media.UploadPhoto(c.Request.Context(), barbershopID, data)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Erro ao enviar a imagem.")
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("photo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_save_photo", "Erro ao salvar a foto.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

// ======================================================
// POST /services/:id/photo — foto do serviço
// ======================================================
func (h *UploadHandler) UploadServicePhoto(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "ID de serviço inválido.")
		return
	}

	var service models.Service
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", serviceID, barbershopID).
		First(&service).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	data, ok := h.readPhoto(c)
	if !ok {
		return
	}

	url, err := h.media.UploadPhoto(c.Request.Context(), barbershopID, data)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Erro ao enviar a imagem.")
		return
	}

	service.PhotoURL = url
	if err := h.db.Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_save_photo", "Erro ao salvar a foto.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
