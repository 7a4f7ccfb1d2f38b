package handlers

import (
	"net/http"

	"travel-story-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps bundles everything the HTTP routes are built from
type RouterDeps struct {
	Users      *UserHandler
	Stories    *StoryHandler
	Media      *MediaHandler
	WebSocket  *WebSocketHandler
	Health     *HealthHandler
	Tokens     middleware.TokenValidator
	UploadsDir string
	AssetsDir  string
}

// NewRouter wires the public and protected routes
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Public routes
	r.Post("/create-account", d.Users.CreateAccount)
	r.Post("/login", d.Users.Login)
	r.Post("/image-upload", d.Media.UploadImage)
	r.Delete("/delete-image", d.Media.DeleteImage)
	r.Get("/health", d.Health.Health)
	r.Get("/ws", d.WebSocket.HandleWebSocket)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(d.Tokens))
		r.Get("/get-user", d.Users.GetUser)
		r.Post("/add-travel-story", d.Stories.AddStory)
		r.Get("/get-all-stories", d.Stories.GetAllStories)
		r.Put("/edit-story/{id}", d.Stories.EditStory)
		r.Delete("/delete-story/{id}", d.Stories.DeleteStory)
		r.Put("/update-is-favourite/{id}", d.Stories.UpdateIsFavourite)
		r.Get("/search", d.Stories.Search)
		r.Get("/travel-stories/filter", d.Stories.FilterByDate)
	})

	// Static files
	if d.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadsDir))))
	}
	if d.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(d.AssetsDir))))
	}

	return r
}
