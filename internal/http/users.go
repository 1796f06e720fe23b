package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookshelfapp/bookshelf/internal/entities"
)

// UsersController serves the admin member roster.
type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

// userView strips the password hash and other private columns from the
// roster payload.
type userView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

func toUserView(u entities.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt.Format("2006-01-02"),
	}
}

// ListUsers returns all members, oldest signup first.
func (controller *UsersController) ListUsers(c *gin.Context) {
	users, err := controller.store.List(currentActor(c))
	if err != nil {
		respondAppError(c, err, "list users")
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	respondSuccess(c, gin.H{"users": views})
}

type setAdminRequest struct {
	IsAdmin *bool `json:"is_admin" form:"isAdmin"`
}

// SetAdmin grants or revokes a member's admin privileges.
func (controller *UsersController) SetAdmin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req setAdminRequest
	if err := c.ShouldBind(&req); err != nil || req.IsAdmin == nil {
		respondBadRequest(c, "is_admin is required")
		return
	}

	user, err := controller.store.SetAdmin(currentActor(c), id, *req.IsAdmin)
	if err != nil {
		respondAppError(c, err, "set admin")
		return
	}
	respondSuccess(c, toUserView(*user))
}
