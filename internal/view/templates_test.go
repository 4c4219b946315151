package view

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type loginData struct {
	Form   struct{ Email string }
	Errors map[string]string
}

func TestRenderLoginPage(t *testing.T) {
	e, err := NewEngine("сом")
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	data := loginData{Errors: map[string]string{"general": "Invalid email or password"}}
	data.Form.Email = "admin@example.com"

	rec := httptest.NewRecorder()
	if err := e.Render(rec, "pages/login.html", TemplateData{Title: "Login", Data: data}); err != nil {
		t.Fatalf("render: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "admin@example.com") {
		t.Fatalf("form email missing from body:\n%s", body)
	}
	if !strings.Contains(body, "Invalid email or password") {
		t.Fatalf("general error missing from body:\n%s", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestRenderWritesNothingOnFailure(t *testing.T) {
	e, err := NewEngine("сом")
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	// Field access on an int fails after the layout has already produced
	// output; none of it may reach the client, so the caller can still
	// redirect.
	rec := httptest.NewRecorder()
	if err := e.Render(rec, "pages/login.html", TemplateData{Title: "Login", Data: 42}); err == nil {
		t.Fatal("expected a render error")
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("partial body leaked to the client: %q", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "" {
		t.Fatalf("headers set despite failed render: %q", rec.Header().Get("Content-Type"))
	}
}
