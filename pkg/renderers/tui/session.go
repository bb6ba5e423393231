package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
)

// Session drives one controller from terminal prompts.
type Session struct {
	ctrl         *controller.Controller
	form         model.FormModel
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	theme        Theme
	logger       *zap.Logger
	view         *Renderer
}

// NewSession binds a controller and form definition to a prompt driver
// (survey by default, JSON output).
func NewSession(ctrl *controller.Controller, form model.FormModel, options ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("tui: controller is required")
	}
	if len(form.Fields) == 0 {
		return nil, errors.New("tui: form has no fields")
	}

	s := &Session{
		ctrl:         ctrl,
		form:         form,
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = newSurveyDriver(s.out)
	}
	s.view = NewRenderer(s.theme)
	return s, nil
}

// Run prompts every field until it validates, confirms and submits, then
// offers to register again. It returns the last submitted data serialized in
// the configured format.
func (s *Session) Run(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}

	var last []byte
	for {
		if err := s.collect(ctx); err != nil {
			return last, err
		}
		if err := s.show(ctx); err != nil {
			return last, err
		}

		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: s.form.SubmitLabel + "?", Default: true})
		if err != nil {
			return last, err
		}
		if !ok {
			return last, ErrDeclined
		}

		submitted, err := s.submit(ctx)
		if err != nil {
			return last, err
		}
		if !submitted {
			continue
		}

		if last, err = s.serialize(s.ctrl.Snapshot().Data); err != nil {
			return nil, err
		}
		if err := s.show(ctx); err != nil {
			return last, err
		}

		again, err := s.driver.Confirm(ctx, ConfirmConfig{Message: s.form.ResetLabel + "?"})
		if err != nil {
			return last, err
		}
		if !again {
			return last, nil
		}
		if err := s.ctrl.ResetForm(); err != nil {
			return last, err
		}
	}
}

// collect prompts each field that is empty or carries an error. Each answer is
// applied as a change followed by a blur, as a browser would.
func (s *Session) collect(ctx context.Context) error {
	for _, field := range s.form.Fields {
		state := s.ctrl.Snapshot()
		if state.Touched[field.Name] && !state.Errors.Has(field.Name) {
			continue
		}
		for {
			value, err := s.prompt(ctx, field, s.ctrl.Snapshot().Data.Get(field.Name))
			if err != nil {
				return err
			}
			if err := s.ctrl.HandleChange(field.Name, value); err != nil {
				return err
			}
			if err := s.ctrl.HandleBlur(field.Name, value); err != nil {
				return err
			}
			msg := s.ctrl.Snapshot().VisibleError(field.Name)
			if msg == "" {
				break
			}
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) prompt(ctx context.Context, field model.Field, current string) (string, error) {
	message := s.theme.PromptPrefix + field.Label
	if field.InputType == model.InputSelect {
		labels := make([]string, 0, len(field.Options))
		defaultIdx := -1
		for i, option := range field.Options {
			labels = append(labels, option.Label)
			if option.Value == current {
				defaultIdx = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil
	}

	return s.driver.Input(ctx, InputConfig{
		Message: message,
		Default: current,
		Help:    displayHelp(field),
	})
}

// submit reports whether the submission resolved. Validation failures and
// submitter faults are printed; the caller re-prompts in both cases, after
// the user agrees to retry a fault.
func (s *Session) submit(ctx context.Context) (bool, error) {
	if err := s.driver.Info(ctx, s.theme.InfoPrefix+s.form.SubmittingLabel); err != nil {
		return false, err
	}

	err := s.ctrl.HandleSubmit(ctx)
	if err == nil {
		s.logger.Info("tui registration submitted")
		return true, nil
	}

	var validationErr *controller.ValidationError
	if errors.As(err, &validationErr) {
		for _, name := range validationErr.Errors.Fields() {
			if err := s.driver.Info(ctx, fmt.Sprintf("%s%s", s.theme.ErrorPrefix, validationErr.Errors[name])); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	var submitErr *controller.SubmitError
	if errors.As(err, &submitErr) {
		s.logger.Warn("tui submission failed", zap.Error(submitErr.Err))
		if err := s.show(ctx); err != nil {
			return false, err
		}
		retry, confirmErr := s.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if confirmErr != nil {
			return false, confirmErr
		}
		if !retry {
			return false, err
		}
		return false, nil
	}
	return false, err
}

func (s *Session) show(ctx context.Context) error {
	out, err := s.view.Render(ctx, s.form, s.ctrl.Snapshot(), render.RenderOptions{})
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, strings.TrimRight(string(out), "\n"))
}

func (s *Session) serialize(data registration.FormData) ([]byte, error) {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(data)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(data)), nil
	default:
		return json.Marshal(data)
	}
}

func displayHelp(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	return field.Placeholder
}

func flattenForm(data registration.FormData) string {
	flattened := url.Values{}
	for name, value := range data.Values() {
		flattened.Set(name, value)
	}
	return flattened.Encode()
}

func prettyPrint(data registration.FormData) string {
	var b strings.Builder
	for _, name := range registration.Fields() {
		fmt.Fprintf(&b, "%s=%s\n", name, data.Get(name))
	}
	return b.String()
}
