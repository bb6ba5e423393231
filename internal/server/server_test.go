package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
	"github.com/goliatone/go-regform/pkg/testsupport"
)

func testRegistry(t *testing.T) *render.Registry {
	t.Helper()
	registry := render.NewRegistry()
	html, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla: %v", err)
	}
	registry.MustRegister(html)
	registry.MustRegister(tui.NewRenderer(tui.DefaultTheme))
	return registry
}

func newTestServer(t *testing.T, submitter controller.Submitter) *Server {
	t.Helper()
	validator := testsupport.Validator()
	srv, err := New(model.MustDefault(), testRegistry(t),
		WithClock(testsupport.Clock(testsupport.Now)),
		WithAssets(vanilla.AssetsFS()),
		WithControllerFactory(func() *controller.Controller {
			return controller.New(controller.WithValidator(validator), controller.WithSubmitter(submitter))
		}),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie {
			c.cookie = cookie
		}
	}
	return rec
}

func (c *client) postJSON(path string, v any) *httptest.ResponseRecorder {
	c.t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		c.t.Fatalf("marshal: %v", err)
	}
	return c.do(http.MethodPost, path, "application/json", strings.NewReader(string(b)))
}

func (c *client) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
}

func (c *client) state() controller.State {
	c.t.Helper()
	rec := c.do(http.MethodGet, "/api/state", "", nil)
	if rec.Code != http.StatusOK {
		c.t.Fatalf("state: status %d", rec.Code)
	}
	var state controller.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		c.t.Fatalf("decode state: %v", err)
	}
	return state
}

func validForm() url.Values {
	form := url.Values{}
	for name, value := range testsupport.ValidData().Values() {
		form.Set(name, value)
	}
	return form
}

func instantSubmitter() controller.Submitter {
	return testsupport.AckSubmitter("ack-http")
}

func TestNew_RequiresDefaultRenderer(t *testing.T) {
	if _, err := New(model.MustDefault(), render.NewRegistry()); err == nil {
		t.Fatal("expected error without vanilla renderer")
	}
}

func TestGetForm_CreatesSession(t *testing.T) {
	srv := newTestServer(t, instantSubmitter())
	c := &client{t: t, h: srv}

	rec := c.do(http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "<title>Registration</title>") {
		t.Fatalf("unexpected body:\n%s", rec.Body.String())
	}
	if c.cookie == nil {
		t.Fatal("expected session cookie")
	}

	c.do(http.MethodGet, "/", "", nil)
	if got := srv.Sessions().Len(); got != 1 {
		t.Fatalf("expected one session, got %d", got)
	}

	other := &client{t: t, h: srv}
	other.do(http.MethodGet, "/", "", nil)
	if got := srv.Sessions().Len(); got != 2 {
		t.Fatalf("expected two sessions, got %d", got)
	}
}

func TestBlur_ReturnsFieldError(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, instantSubmitter())}

	rec := c.postJSON("/api/blur", fieldRequest{Field: "email", Value: "abc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var got fieldResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := fieldResponse{Field: "email", Error: registration.MsgEmailInvalid}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}

	rec = c.postJSON("/api/blur", fieldRequest{Field: "nickname", Value: "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d", rec.Code)
	}
	rec = c.do(http.MethodPost, "/api/blur", "application/json", strings.NewReader("{"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: expected 400, got %d", rec.Code)
	}
}

func TestChange_ClearsError(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, instantSubmitter())}
	c.postJSON("/api/blur", fieldRequest{Field: "fullName", Value: "J"})

	rec := c.postJSON("/api/change", fieldRequest{Field: "fullName", Value: "Jo"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	state := c.state()
	if state.Errors.Has(registration.FieldFullName) {
		t.Fatalf("expected error cleared on change")
	}
	if state.Data.FullName != "Jo" {
		t.Fatalf("value not stored: %q", state.Data.FullName)
	}
}

func TestSubmit_InvalidRendersErrors(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, instantSubmitter())}

	form := validForm()
	form.Set("fullName", "")
	form.Set("timeSlot", "")
	rec := c.postForm("/", form)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{registration.MsgFullNameRequired, registration.MsgTimeSlotRequired} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
	if strings.Contains(body, registration.MsgEmailRequired) {
		t.Errorf("valid email should not report an error")
	}

	state := c.state()
	if state.Submission != controller.Idle {
		t.Fatalf("expected idle, got %s", state.Submission)
	}
	if len(state.Touched) != len(registration.Fields()) {
		t.Fatalf("expected every field touched, got %v", state.Touched)
	}
}

func TestSubmit_InvalidEchoesTypedMarkupEscaped(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, instantSubmitter())}

	form := validForm()
	form.Set("fullName", "")
	form.Set("location", "a<b>c")
	rec := c.postForm("/", form)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `value="a&lt;b&gt;c"`) {
		t.Fatalf("expected escaped location echo, got:\n%s", body)
	}
	if got := c.state().Data.Location; got != "a<b>c" {
		t.Fatalf("stored location = %q", got)
	}

	form.Set("fullName", "Jane Doe")
	if rec := c.postForm("/", form); rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}
	testsupport.Eventually(t, time.Second, func() bool {
		return c.state().Submission == controller.Submitted
	})
	if got := c.state().Data.Location; got != "a<b>c" {
		t.Fatalf("submitted location = %q", got)
	}
}

func TestSubmit_LifecycleAndReset(t *testing.T) {
	submitter, release := testsupport.GatedSubmitter("ack-http")
	defer release()
	c := &client{t: t, h: newTestServer(t, submitter)}

	rec := c.postForm("/", validForm())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}

	if got := c.state().Submission; got != controller.Submitting {
		t.Fatalf("expected submitting, got %s", got)
	}
	body := c.do(http.MethodGet, "/", "", nil).Body.String()
	if !strings.Contains(body, "Processing...") || !strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatalf("expected submitting view:\n%s", body)
	}
	if rec := c.postForm("/reset", nil); rec.Code != http.StatusConflict {
		t.Fatalf("reset while submitting: expected 409, got %d", rec.Code)
	}
	if rec := c.postJSON("/api/change", fieldRequest{Field: "email", Value: "x@y.z"}); rec.Code != http.StatusConflict {
		t.Fatalf("change while submitting: expected 409, got %d", rec.Code)
	}

	release()
	testsupport.Eventually(t, 2*time.Second, func() bool {
		return c.state().Submission == controller.Submitted
	})

	body = c.do(http.MethodGet, "/", "", nil).Body.String()
	if !strings.Contains(body, "Success!") || !strings.Contains(body, "ack-http") {
		t.Fatalf("expected success view:\n%s", body)
	}

	if rec := c.postForm("/reset", nil); rec.Code != http.StatusSeeOther {
		t.Fatalf("reset: expected redirect, got %d", rec.Code)
	}
	state := c.state()
	if diff := cmp.Diff(controller.NewState(), state); diff != "" {
		t.Fatalf("state after reset (-want +got):\n%s", diff)
	}
}

func TestEvents(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, instantSubmitter())}

	rec := c.postJSON("/api/events", eventRequest{Type: controller.EventFieldChanged, Field: "email", Value: "jane@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("fieldChanged: status %d", rec.Code)
	}
	rec = c.postJSON("/api/events", eventRequest{Type: controller.EventValidationRequested})
	if rec.Code != http.StatusOK {
		t.Fatalf("validationRequested: status %d", rec.Code)
	}
	var state controller.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []registration.FieldName{
		registration.FieldFullName,
		registration.FieldPhoneNumber,
		registration.FieldLocation,
		registration.FieldDateOfJoining,
		registration.FieldTimeSlot,
	}
	if diff := cmp.Diff(want, state.Errors.Fields()); diff != "" {
		t.Fatalf("error fields mismatch (-want +got):\n%s", diff)
	}

	rec = c.postJSON("/api/events", eventRequest{Type: controller.EventSubmitResolved})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("submitResolved must be rejected, got %d", rec.Code)
	}

	rec = c.postJSON("/api/events", eventRequest{Type: controller.EventResetRequested})
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: status %d", rec.Code)
	}
	if got := c.state(); len(got.Errors) != 0 || got.Data.Email != "" {
		t.Fatalf("expected empty state after reset, got %+v", got)
	}
}

func TestValidateEndpoint(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, instantSubmitter())}
	rec := c.postJSON("/api/validate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got struct {
		Valid  bool              `json:"valid"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Valid || len(got.Errors) != len(registration.Fields()) {
		t.Fatalf("expected all fields invalid, got %+v", got)
	}
}

func TestContractAndAssets(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, instantSubmitter())}

	rec := c.do(http.MethodGet, "/openapi.json", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "createRegistration") {
		t.Fatalf("unexpected contract response %d: %s", rec.Code, rec.Body.String())
	}

	rec = c.do(http.MethodGet, "/assets/"+vanilla.StylesheetName, "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), ".regform-form") {
		t.Fatalf("unexpected asset response %d", rec.Code)
	}
}

func TestTextView(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, instantSubmitter())}
	rec := c.do(http.MethodGet, "/?view=tui", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("content type %q", rec.Header().Get("Content-Type"))
	}
	if rec := c.do(http.MethodGet, "/?view=pdf", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown view: expected 404, got %d", rec.Code)
	}
}

func TestSessions_SweepsIdle(t *testing.T) {
	now := testsupport.Now
	sessions := NewSessions(func() *controller.Controller { return controller.New() }, time.Minute)
	sessions.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	id, _ := sessions.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	now = now.Add(2 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	newID, _ := sessions.Resolve(httptest.NewRecorder(), req)

	if newID == id {
		t.Fatal("expected expired session to be replaced")
	}
	if got := sessions.Len(); got != 1 {
		t.Fatalf("expected one live session, got %d", got)
	}
}

type themeCall struct {
	Name    string
	Variant string
}

func TestThemeResolver(t *testing.T) {
	var calls []themeCall
	resolve := func(name, variant string) (*theme.RendererConfig, error) {
		calls = append(calls, themeCall{Name: name, Variant: variant})
		if name == "neon" {
			return nil, errors.New("unknown theme")
		}
		return &theme.RendererConfig{
			Theme:    "regform",
			Variant:  variant,
			CSSVars:  map[string]string{"--brand": "#123456"},
			AssetURL: func(string) string { return "/themes/regform.css" },
		}, nil
	}
	srv, err := New(model.MustDefault(), testRegistry(t),
		WithClock(testsupport.Clock(testsupport.Now)),
		WithThemeResolver(resolve),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	c := &client{t: t, h: srv}

	rec := c.do(http.MethodGet, "/?variant=dark", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<link rel="stylesheet" href="/themes/regform.css">`,
		`data-variant="dark"`,
		"--brand: #123456;",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in body:\n%s", want, body)
		}
	}

	if rec := c.do(http.MethodGet, "/?theme=neon", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown theme: expected 404, got %d", rec.Code)
	}
	want := []themeCall{{Variant: "dark"}, {Name: "neon"}}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("resolver calls mismatch (-want +got):\n%s", diff)
	}
}
