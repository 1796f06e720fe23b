package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookshelfapp/bookshelf/internal/entities"
)

var (
	anonymous       *entities.Actor
	member          = &entities.Actor{ID: 2, Name: "Bob"}
	administrator   = &entities.Actor{ID: 1, Name: "Alice", IsAdmin: true}
	policySessions  = []*entities.Actor{anonymous, member, administrator}
	policySessionID = func(a *entities.Actor) string {
		switch {
		case a == nil:
			return "anonymous"
		case a.IsAdmin:
			return "admin"
		default:
			return "member"
		}
	}
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		actor    *entities.Actor
		expected Decision
	}{
		{"public listing", "GET", "/api/books", anonymous, Allow},
		{"public book detail", "GET", "/api/books/3", anonymous, Allow},
		{"public categories", "GET", "/api/categories", anonymous, Allow},
		{"public health", "GET", "/health", anonymous, Allow},

		{"anonymous add page", "GET", "/books/add", anonymous, DenyAnonymous},
		{"member add page", "GET", "/books/add", member, Allow},
		{"anonymous edit page", "GET", "/books/3/edit", anonymous, DenyAnonymous},
		{"member edit page", "GET", "/books/3/edit", member, Allow},
		{"edit-like path without id", "GET", "/books/abc/edit", anonymous, Allow},

		{"anonymous create book", "POST", "/api/books", anonymous, DenyAnonymous},
		{"member create book", "POST", "/api/books", member, Allow},
		{"anonymous update book", "PUT", "/api/books/3", anonymous, DenyAnonymous},
		{"anonymous delete book", "DELETE", "/api/books/3", anonymous, DenyAnonymous},
		{"anonymous upload", "POST", "/api/uploads", anonymous, DenyAnonymous},
		{"member upload", "POST", "/api/uploads", member, Allow},
		{"anonymous metadata", "GET", "/api/metadata/suggest", anonymous, DenyAnonymous},
		{"member metadata", "GET", "/api/metadata/suggest", member, Allow},

		{"anonymous admin page", "GET", "/admin", anonymous, DenyAnonymous},
		{"member admin page", "GET", "/admin/categories", member, DenyNotAdmin},
		{"admin admin page", "GET", "/admin/categories", administrator, Allow},
		{"anonymous admin api", "POST", "/api/admin/categories", anonymous, DenyAnonymous},
		{"member admin api", "DELETE", "/api/admin/categories/3", member, DenyNotAdmin},
		{"admin admin api", "PUT", "/api/admin/users/2/admin", administrator, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Decide(tt.method, tt.path, tt.actor))
		})
	}
}

// The repository guards must agree with the routing policy: any
// request the middleware lets through to an admin route must also pass
// RequireAdmin, and vice versa, for every session shape.
func TestDecide_AgreesWithRepositoryGuards(t *testing.T) {
	adminRoutes := []struct{ method, path string }{
		{"POST", "/api/admin/categories"},
		{"PUT", "/api/admin/categories/1"},
		{"DELETE", "/api/admin/categories/1"},
		{"GET", "/api/admin/users"},
		{"PUT", "/api/admin/users/1/admin"},
	}
	signedInRoutes := []struct{ method, path string }{
		{"POST", "/api/books"},
		{"PUT", "/api/books/1"},
		{"DELETE", "/api/books/1"},
		{"POST", "/api/uploads"},
	}

	for _, actor := range policySessions {
		actor := actor
		t.Run(policySessionID(actor), func(t *testing.T) {
			for _, route := range adminRoutes {
				decision := Decide(route.method, route.path, actor)
				guard := RequireAdmin(actor)
				assert.Equal(t, guard == nil, decision == Allow,
					"%s %s: middleware and RequireAdmin disagree", route.method, route.path)
			}
			for _, route := range signedInRoutes {
				decision := Decide(route.method, route.path, actor)
				guard := RequireSignIn(actor)
				assert.Equal(t, guard == nil, decision == Allow,
					"%s %s: middleware and RequireSignIn disagree", route.method, route.path)
			}
		})
	}
}

func TestCanMutateBook(t *testing.T) {
	book := &entities.Book{ID: 10, AddedByID: member.ID}

	assert.True(t, CanMutateBook(member, book))
	assert.True(t, CanMutateBook(administrator, book))
	assert.False(t, CanMutateBook(&entities.Actor{ID: 99}, book))
	assert.False(t, CanMutateBook(nil, book))
	assert.False(t, CanMutateBook(member, nil))
}

func TestRequireBookOwnership(t *testing.T) {
	book := &entities.Book{ID: 10, AddedByID: member.ID}

	assert.Nil(t, RequireBookOwnership(member, book))
	assert.Nil(t, RequireBookOwnership(administrator, book))

	err := RequireBookOwnership(&entities.Actor{ID: 99}, book)
	if assert.NotNil(t, err) {
		assert.Equal(t, "You can only edit books you added.", err.Message)
	}

	err = RequireBookOwnership(nil, book)
	if assert.NotNil(t, err) {
		assert.Equal(t, "You must be signed in.", err.Message)
	}
}
