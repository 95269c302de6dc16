// Package httpui serves the browser interface: a user list plus create and
// edit forms. Handlers replay posted values through the form controller so
// server-side validation matches what the form enforces field by field.
package httpui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-userdesk/pkg/crud"
	"github.com/goliatone/go-userdesk/pkg/form"
	"github.com/goliatone/go-userdesk/pkg/render"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

// Store is the persistence surface the UI needs: the façade's backend
// operations plus single-record lookup for the edit page.
type Store interface {
	crud.Backend
	Get(ctx context.Context, id string) (crud.Record, error)
}

// Server holds the UI's collaborators. One Server handles all requests; a
// fresh form controller and façade are built per request, mirroring a
// per-session form instance.
type Server struct {
	fields   schema.Fields
	store    Store
	renderer *render.Renderer
	logger   *log.Logger
}

// New builds a Server. A nil logger falls back to the standard logger.
func New(fields schema.Fields, store Store, renderer *render.Renderer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		fields:   fields,
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// Handler assembles the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleList)
	r.Get("/users/new", s.handleNewForm)
	r.Post("/users", s.handleCreate)
	r.Get("/users/{id}/edit", s.handleEditForm)
	r.Post("/users/{id}", s.handleUpdate)
	r.Post("/users/{id}/delete", s.handleDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.renderError(w, fmt.Errorf("list users: %w", err))
		return
	}

	view := render.BuildListView(s.fields, records, render.DefaultListURLs())
	view.Flash = r.URL.Query().Get("flash")
	view.FlashError = r.URL.Query().Get("error")

	page, err := s.renderer.ListPage(view)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.writeHTML(w, http.StatusOK, page)
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	controller := form.NewController(s.fields)
	s.renderForm(w, r, controller, "/users", http.StatusOK, "")
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	controller, err := s.replayForm(r, form.ModeCreate, nil)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.submit(w, r, controller, "/users", func(ctx context.Context, facade *crud.Facade, draft schema.Draft) bool {
		_, ok := facade.CreateUser(ctx, draft)
		return ok
	})
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.redirectWithError(w, r, err.Error())
		return
	}

	controller := form.NewController(s.fields)
	controller.Init(form.ModeEdit, record.Values)
	s.renderForm(w, r, controller, "/users/"+id, http.StatusOK, "")
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.redirectWithError(w, r, err.Error())
		return
	}

	controller, err := s.replayForm(r, form.ModeEdit, nil)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.submit(w, r, controller, "/users/"+id, func(ctx context.Context, facade *crud.Facade, draft schema.Draft) bool {
		_, ok := facade.UpdateUser(ctx, id, draft)
		return ok
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var failure string
	facade := crud.NewFacade(s.store, crud.Callbacks{
		OnFailure: func(message string) { failure = message },
	})

	if !facade.DeleteUser(r.Context(), id) {
		s.redirectWithError(w, r, failure)
		return
	}
	s.redirectWithFlash(w, r, crud.MsgUserDeleted)
}

// replayForm reconstructs the controller state a browser session would have
// built up: seed the draft, then feed every posted schema field through
// Change. Posted keys outside the schema are ignored.
func (s *Server) replayForm(r *http.Request, mode form.Mode, seed schema.Draft) (*form.Controller, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("httpui: parse form: %w", err)
	}

	controller := form.NewController(s.fields)
	controller.Init(mode, seed)

	for _, field := range s.fields {
		if _, ok := r.PostForm[field.Name]; !ok {
			continue
		}
		if err := controller.Change(field.Name, r.PostForm.Get(field.Name)); err != nil {
			return nil, err
		}
	}
	return controller, nil
}

type submitFunc func(ctx context.Context, facade *crud.Facade, draft schema.Draft) bool

// submit runs the controller's submit path against the store. Validation
// failures re-render the form as 422 with every error visible; backend
// failures re-render with the retained error message.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, controller *form.Controller, action string, op submitFunc) {
	var backendFailure string
	facade := crud.NewFacade(s.store, crud.Callbacks{
		OnFailure: func(message string) { backendFailure = message },
	})

	err := controller.Submit(func(draft schema.Draft) error {
		if !op(r.Context(), facade, draft) {
			return errors.New(facade.LastError())
		}
		return nil
	})

	switch {
	case err == nil:
		var flash string
		switch controller.Mode() {
		case form.ModeEdit:
			flash = crud.MsgUserUpdated
		default:
			flash = crud.MsgUserCreated
		}
		s.redirectWithFlash(w, r, flash)
	case errors.Is(err, form.ErrInvalidDraft):
		s.renderForm(w, r, controller, action, http.StatusUnprocessableEntity, "")
	default:
		s.renderForm(w, r, controller, action, http.StatusUnprocessableEntity, backendFailure)
	}
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, controller *form.Controller, action string, status int, flashError string) {
	view := render.BuildFormView(s.fields, controller, action, "/")
	view.FlashError = flashError

	page, err := s.renderer.FormPage(view)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.writeHTML(w, status, page)
}

func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/?flash="+url.QueryEscape(message), http.StatusSeeOther)
}

func (s *Server) redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(message), http.StatusSeeOther)
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	s.logger.Printf("httpui: %v", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		s.logger.Printf("httpui: write response: %v", err)
	}
}
