package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"
	"github.com/hanzilala/hanzilala/app/hanviet"
	"github.com/hanzilala/hanzilala/app/slideshow"
)

const ctxUsernameKey = "username"

type Server struct {
	storage db.Storage
	router  chi.Router
}

func (s *Server) Run(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.router)
}

func (s *Server) setJsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func NewServer(
	storage db.Storage,
	gateway hanzii.Client,
	readings *hanviet.Service,
	show *slideshow.Show,
	jwtSecret string,
) *Server {
	s := &Server{storage: storage}
	dict := dictionaryService{gateway: gateway, readings: readings, storage: storage}
	auth := authService{gateway: gateway, storage: storage, jwtSecret: []byte(jwtSecret)}
	slides := slideshowService{
		show:      show,
		presenter: slideshow.NewPresenter(readings),
		suggester: slideshow.NewSuggester(gateway, show.EnterSearchMode),
		storage:   storage,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.setJsonContentType)
			r.Post("/google", auth.GoogleLoginHandler)
		})
		r.Route("/dictionary", func(r chi.Router) {
			r.Use(s.setJsonContentType)
			r.Get("/word/{word}", dict.GetWord)
			r.Get("/suggest", dict.Suggest)
		})
		r.Route("/bookmarks", func(r chi.Router) {
			r.Use(s.setJsonContentType)
			r.Use(auth.UserCtx)
			r.Get("/", dict.ListBookmarks)
			r.Put("/{word}", dict.SaveBookmark)
			r.Delete("/{word}", dict.DeleteBookmark)
		})
		r.Route("/preferences", func(r chi.Router) {
			r.Use(s.setJsonContentType)
			r.Use(auth.UserCtx)
			r.Get("/", dict.GetPreferences)
			r.Post("/", dict.SavePreferences)
		})
		r.Route("/slideshow", func(r chi.Router) {
			r.Get("/", slides.GetView)
			r.With(s.setJsonContentType).Get("/state", slides.GetState)
			r.Post("/next", slides.Next)
			r.Post("/prev", slides.Prev)
			r.Post("/autoplay", slides.ToggleAutoPlay)
			r.Post("/search", slides.EnterSearch)
			r.Delete("/search", slides.ExitSearch)
			r.Post("/search/input", slides.SearchInput)
			r.With(s.setJsonContentType).Get("/search/suggestions", slides.SearchSuggestions)
			r.Post("/search/select", slides.SearchSelect)
			r.Post("/search/submit", slides.SearchSubmit)
			r.Post("/search/dismiss", slides.SearchDismiss)
			r.Post("/language", slides.SetLanguage)
			r.Post("/layout", slides.SetLayout)
			r.Post("/reload", slides.Reload)
		})
	})

	s.router = r
	return s
}
