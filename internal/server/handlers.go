package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-regform/pkg/contract"
	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
)

type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type fieldResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type eventRequest struct {
	Type  controller.EventType `json:"type"`
	Field string               `json:"field,omitempty"`
	Value string               `json:"value,omitempty"`
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	_, ctrl := s.sessions.Resolve(w, r)
	s.renderState(w, r, http.StatusOK, ctrl.Snapshot())
}

// handleSubmit applies every posted value as a change, then starts the
// submission in the background and redirects back to the form.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ctrl := s.sessions.Resolve(w, r)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	for _, name := range registration.Fields() {
		if _, ok := r.PostForm[string(name)]; !ok {
			continue
		}
		if err := ctrl.HandleChange(name, r.PostForm.Get(string(name))); err != nil {
			if errors.Is(err, controller.ErrSubmitting) || errors.Is(err, controller.ErrSubmitted) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	done := ctrl.SubmitAsync(r.Context())
	select {
	case err := <-done:
		var validationErr *controller.ValidationError
		if errors.As(err, &validationErr) {
			s.renderState(w, r, http.StatusUnprocessableEntity, ctrl.Snapshot())
			return
		}
		if err != nil && !errors.Is(err, controller.ErrSubmitting) && !errors.Is(err, controller.ErrSubmitted) {
			s.logger.Warn("registration submit rejected", zap.String("session", id), zap.Error(err))
		}
	default:
		s.logger.Debug("registration submission started", zap.String("session", id))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	_, ctrl := s.sessions.Resolve(w, r)
	if err := ctrl.ResetForm(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	_, ctrl := s.sessions.Resolve(w, r)
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	_, ctrl := s.sessions.Resolve(w, r)
	var req fieldRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ctrl.HandleChange(registration.FieldName(req.Field), req.Value); err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	_, ctrl := s.sessions.Resolve(w, r)
	var req fieldRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := registration.FieldName(req.Field)
	if err := ctrl.HandleBlur(name, req.Value); err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fieldResponse{
		Field: req.Field,
		Error: ctrl.Snapshot().VisibleError(name),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	_, ctrl := s.sessions.Resolve(w, r)
	valid := ctrl.ValidateForm()
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  valid,
		"errors": ctrl.Snapshot().Errors,
	})
}

// handleEvent dispatches a user event by its tag. Submission outcome events
// are produced by the controller itself and are not accepted here.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	_, ctrl := s.sessions.Resolve(w, r)
	var req eventRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := registration.FieldName(req.Field)
	var err error
	switch req.Type {
	case controller.EventFieldChanged:
		err = ctrl.HandleChange(name, req.Value)
	case controller.EventFieldBlurred:
		err = ctrl.HandleBlur(name, req.Value)
	case controller.EventValidationRequested:
		ctrl.ValidateForm()
	case controller.EventSubmitRequested:
		select {
		case err = <-ctrl.SubmitAsync(r.Context()):
		default:
		}
	case controller.EventResetRequested:
		err = ctrl.ResetForm()
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported event type %q", req.Type))
		return
	}

	var validationErr *controller.ValidationError
	if err != nil && !errors.As(err, &validationErr) {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleContract(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, contract.Document())
}

func (s *Server) renderState(w http.ResponseWriter, r *http.Request, status int, state controller.State) {
	name := r.URL.Query().Get("view")
	if name == "" {
		name = DefaultRenderer
	}
	renderer, err := s.renderers.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	opts := render.RenderOptions{
		Action:         "/",
		ResetAction:    "/reset",
		Now:            s.now(),
		RefreshSeconds: s.refreshSeconds,
	}
	if s.themes != nil {
		cfg, err := s.themes(r.URL.Query().Get("theme"), r.URL.Query().Get("variant"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		opts.Theme = cfg
	}

	out, err := renderer.Render(r.Context(), s.form, state, opts)
	if err != nil {
		s.logger.Error("render failed", zap.String("renderer", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func writeControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, controller.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, controller.ErrSubmitting), errors.Is(err, controller.ErrSubmitted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
