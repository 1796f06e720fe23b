package auth

import (
	"regexp"
	"strings"

	"github.com/bookshelfapp/bookshelf/internal/apperr"
	"github.com/bookshelfapp/bookshelf/internal/entities"
)

// Decision is the outcome of the access policy for a route.
type Decision int

const (
	Allow Decision = iota
	DenyAnonymous // no session where one is required
	DenyNotAdmin  // session present but the route needs the admin flag
)

var bookEditPath = regexp.MustCompile(`^/books/[0-9]+/edit$`)

// Decide is the single access rule for the whole route surface. It is
// pure (no I/O) so it can run both in the pre-routing middleware, where
// only session claims are available, and in tests that sweep the full
// route/session matrix. Precedence: admin surface, then signed-in
// surface, then public.
//
// Ownership of individual books cannot be decided here because it needs
// the stored record; that half of the policy is CanMutateBook, applied
// by the book repository after loading the target.
func Decide(method, path string, actor *entities.Actor) Decision {
	if strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, "/api/admin") {
		if actor == nil {
			return DenyAnonymous
		}
		if !actor.IsAdmin {
			return DenyNotAdmin
		}
		return Allow
	}

	if requiresSession(method, path) {
		if actor == nil {
			return DenyAnonymous
		}
		return Allow
	}

	return Allow
}

// requiresSession lists the non-admin surface that needs any signed-in
// user: the add/edit pages and every mutating or member-only API call.
func requiresSession(method, path string) bool {
	if path == "/books/add" || bookEditPath.MatchString(path) {
		return true
	}
	if strings.HasPrefix(path, "/api/books") && method != "GET" && method != "HEAD" {
		return true
	}
	if path == "/api/uploads" || strings.HasPrefix(path, "/api/metadata") {
		return true
	}
	return false
}

// CanMutateBook reports whether the actor may edit or delete the book:
// its creator or any admin.
func CanMutateBook(actor *entities.Actor, book *entities.Book) bool {
	if actor == nil || book == nil {
		return false
	}
	return actor.IsAdmin || actor.ID == book.AddedByID
}

// RequireSignIn returns the error a mutating operation reports when no
// session is present, or nil.
func RequireSignIn(actor *entities.Actor) *apperr.Error {
	if actor == nil {
		return apperr.AuthRequired("You must be signed in.")
	}
	return nil
}

// RequireAdmin returns the error an administrative operation reports for
// a missing or non-admin session, or nil.
func RequireAdmin(actor *entities.Actor) *apperr.Error {
	if actor == nil {
		return apperr.AuthRequired("You must be signed in.")
	}
	if !actor.IsAdmin {
		return apperr.Forbidden("Administrator access is required.")
	}
	return nil
}

// RequireBookOwnership returns the error a book mutation reports when the
// actor is neither the creator nor an admin, or nil. Kept next to
// CanMutateBook so the message and the rule cannot drift apart.
func RequireBookOwnership(actor *entities.Actor, book *entities.Book) *apperr.Error {
	if err := RequireSignIn(actor); err != nil {
		return err
	}
	if !CanMutateBook(actor, book) {
		return apperr.Forbidden("You can only edit books you added.")
	}
	return nil
}
