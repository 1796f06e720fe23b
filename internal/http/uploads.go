package http

import (
	"github.com/gin-gonic/gin"
)

// UploadsController accepts cover image uploads from signed-in members.
type UploadsController struct {
	store UploadStore
}

func NewUploadsController(store UploadStore) *UploadsController {
	return &UploadsController{store: store}
}

// Upload stores one image from a multipart form and returns its public
// URL.
func (controller *UploadsController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "No file was uploaded.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	url, err := controller.store.Save(file)
	if err != nil {
		respondAppError(c, err, "save upload")
		return
	}
	respondSuccess(c, gin.H{"url": url})
}
