package http

import (
	"github.com/gin-gonic/gin"
)

// MetadataController serves on-demand metadata suggestions for the
// book form.
type MetadataController struct {
	suggester MetadataSuggester
}

func NewMetadataController(suggester MetadataSuggester) *MetadataController {
	return &MetadataController{suggester: suggester}
}

// Suggest looks up title, author, and cover for a purchase URL. A URL
// with no usable identifier yields found=false, not an error.
func (controller *MetadataController) Suggest(c *gin.Context) {
	purchaseURL := c.Query("url")
	if purchaseURL == "" {
		respondBadRequest(c, "url query parameter is required")
		return
	}

	suggestion, err := controller.suggester.Suggest(c.Request.Context(), purchaseURL)
	if err != nil {
		respondInternalError(c, err, "suggest metadata")
		return
	}
	if suggestion == nil {
		respondSuccess(c, gin.H{"found": false})
		return
	}
	respondSuccess(c, gin.H{"found": true, "suggestion": suggestion})
}
