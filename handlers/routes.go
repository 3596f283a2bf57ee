package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/readnest/backend/middleware"
)

// Routes mounts the whole API surface on a fresh router. main mounts it
// under /api; tests build it around stub dependencies.
func Routes(
	jwtSecret string,
	auth *AuthHandler,
	users *UsersHandler,
	social *SocialHandler,
	books *BooksHandler,
	shelf *BookshelfHandler,
	groups *GroupsHandler,
	upload *UploadHandler,
) chi.Router {
	r := chi.NewRouter()

	r.Post("/users/register", auth.Register)
	r.Post("/users/login", auth.Login)
	r.Post("/users/forgot-password", auth.ForgotPassword)
	r.Post("/users/reset-password", auth.ResetPassword)

	r.Get("/users/{id}", users.PublicProfile)
	r.Get("/users/{id}/bookshelf", shelf.ListForUser)
	r.Get("/users/{id}/bookshelf/stats", shelf.Stats)
	r.Get("/users/{id}/followers", social.Followers)
	r.Get("/users/{id}/following", social.Following)

	r.Get("/books", books.List)
	r.Post("/books", books.Create)
	r.Get("/books/lookup", books.Lookup)
	r.Get("/books/{id}", books.Get)

	r.Get("/groups", groups.List)
	r.Get("/groups/{id}", groups.Get)
	r.Get("/groups/{id}/topics", groups.ListTopics)
	r.Get("/topics/{id}", groups.GetTopic)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))

		r.Get("/users/profile", users.Profile)
		r.Put("/users/profile", users.UpdateProfile)

		r.Get("/users/{id}/follow-status", social.FollowStatus)
		r.Post("/users/{id}/follow", social.Follow)
		r.Delete("/users/{id}/follow", social.Unfollow)

		r.Get("/users/bookshelf", shelf.ListOwn)
		r.Post("/users/bookshelf", shelf.Add)
		r.Put("/users/bookshelf/{id}", shelf.Update)
		r.Delete("/users/bookshelf/{id}", shelf.Remove)

		r.Post("/groups", groups.Create)
		r.Post("/groups/{id}/join", groups.Join)
		r.Post("/groups/{id}/leave", groups.Leave)
		r.Post("/groups/{id}/topics", groups.CreateTopic)
		r.Post("/topics/{id}/reply", groups.Reply)

		r.Post("/upload/avatar", upload.Avatar)
		r.Post("/upload/cover", upload.Cover)
	})

	return r
}
