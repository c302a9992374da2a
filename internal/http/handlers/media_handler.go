package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/http/handlers/common"
	"github.com/agrimitra/backend/internal/pkg/apperror"
	"github.com/agrimitra/backend/internal/storage"
)

// MediaHandler принимает загрузку фотографий посевов в объектное хранилище.
type MediaHandler struct {
	media *storage.MediaStore
}

// NewMediaHandler создаёт хэндлер.
func NewMediaHandler(media *storage.MediaStore) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadCropPhoto обрабатывает POST /api/media/crop-photo (multipart,
// поле photo). Ключ сохранённого объекта переиспользуется диагностикой
// болезней.
func (h *MediaHandler) UploadCropPhoto(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		fail(c, apperror.New(apperror.ErrCodeBadRequest, "photo file is required"))
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, apperror.Wrap(err, apperror.ErrCodeBadRequest, "Cannot read the uploaded file"))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		fail(c, apperror.Wrap(err, apperror.ErrCodeBadRequest, "Cannot read the uploaded file"))
		return
	}

	object, err := h.media.Put(c.Request.Context(), "crop-photos", userID, data)
	if err != nil {
		fail(c, apperror.Wrap(err, apperror.ErrCodeBadRequest, err.Error()))
		return
	}
	created(c, object)
}
