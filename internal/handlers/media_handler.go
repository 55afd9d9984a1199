package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"banthub/internal/services"
)

type MediaHandler struct {
	mediaService services.MediaService
}

func NewMediaHandler(mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// @Summary      Upload a media file
// @Tags         Media
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image or video"
// @Success      201   {object}  models.Media
// @Failure      400   {object}  map[string]string
// @Router       /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	media, err := h.mediaService.Upload(
		c.Request.Context(), currentUserID(c),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data,
	)
	if err != nil {
		log.Printf("[media][upload] failed for user %s: %v", currentUserID(c), err)
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

// @Summary      Delete a media file
// @Tags         Media
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Media id"
// @Success      200 {object}  map[string]string
// @Failure      403 {object}  map[string]string
// @Router       /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	err := h.mediaService.Delete(c.Request.Context(), c.Param("id"), currentUserID(c), currentRole(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "media deleted"})
}

// @Summary      The caller's uploads
// @Tags         Media
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.Media
// @Router       /media [get]
func (h *MediaHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	media, err := h.mediaService.ListByUser(currentUserID(c), limit, offset)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}
