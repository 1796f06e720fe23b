package http

import (
	"github.com/gin-gonic/gin"
)

// CategoriesController serves the public category list and the
// admin-only taxonomy mutations.
type CategoriesController struct {
	store CategoryStore
}

func NewCategoriesController(store CategoryStore) *CategoriesController {
	return &CategoriesController{store: store}
}

// ListCategories returns every category, ordered by name.
func (controller *CategoriesController) ListCategories(c *gin.Context) {
	cats, err := controller.store.List()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	respondSuccess(c, gin.H{"categories": cats})
}

type categoryRequest struct {
	Name string `json:"name" form:"name"`
	Slug string `json:"slug" form:"slug"`
}

// CreateCategory adds a category, deriving the slug when not given.
func (controller *CategoriesController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	cat, err := controller.store.Create(currentActor(c), req.Name, req.Slug)
	if err != nil {
		respondAppError(c, err, "create category")
		return
	}
	respondCreated(c, cat)
}

// UpdateCategory renames a category or changes its slug.
func (controller *CategoriesController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	cat, err := controller.store.Update(currentActor(c), id, req.Name, req.Slug)
	if err != nil {
		respondAppError(c, err, "update category")
		return
	}
	respondSuccess(c, cat)
}

// DeleteCategory removes a category, unless books still use it.
func (controller *CategoriesController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.store.Delete(currentActor(c), id); err != nil {
		respondAppError(c, err, "delete category")
		return
	}
	respondSuccess(c, nil)
}
