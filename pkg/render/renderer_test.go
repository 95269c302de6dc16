package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-userdesk/pkg/crud"
	"github.com/goliatone/go-userdesk/pkg/form"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

func TestResolveThemeBaseVariant(t *testing.T) {
	resolved := ResolveTheme(DefaultManifest(), "")

	if resolved.Name != "userdesk" {
		t.Fatalf("unexpected theme name %q", resolved.Name)
	}
	if resolved.Variant != "" {
		t.Fatalf("expected no variant, got %q", resolved.Variant)
	}
	if got := resolved.CSSVars["--surface"]; got != "#ffffff" {
		t.Fatalf("css var not derived from token: %q", got)
	}
	if !strings.HasPrefix(resolved.CSSVarsStyle, ":root {") {
		t.Fatalf("unexpected css block: %q", resolved.CSSVarsStyle)
	}
}

func TestResolveThemeDarkVariantOverridesTokens(t *testing.T) {
	resolved := ResolveTheme(DefaultManifest(), "dark")

	if resolved.Variant != "dark" {
		t.Fatalf("variant not applied: %q", resolved.Variant)
	}
	if got := resolved.Tokens["surface"]; got != "#111827" {
		t.Fatalf("variant token not merged: %q", got)
	}
	// Tokens the variant does not override keep their base values.
	if got := resolved.Tokens["accent"]; got != "#2563eb" {
		t.Fatalf("base token lost: %q", got)
	}
}

func TestResolveThemeUnknownVariantFallsBack(t *testing.T) {
	resolved := ResolveTheme(DefaultManifest(), "sepia")

	if resolved.Variant != "" {
		t.Fatalf("unknown variant should fall back to base, got %q", resolved.Variant)
	}
	if got := resolved.Tokens["surface"]; got != "#ffffff" {
		t.Fatalf("base token expected: %q", got)
	}
}

func TestDefaultProviderRegistersManifest(t *testing.T) {
	if _, err := DefaultProvider(); err != nil {
		t.Fatalf("default provider: %v", err)
	}
}

func TestBuildFieldMarkupEscapesValues(t *testing.T) {
	markup := buildFieldMarkup(FieldView{
		Name:      "firstName",
		Label:     "First Name",
		InputType: "text",
		Value:     `"><script>alert(1)</script>`,
		Required:  true,
	})

	if strings.Contains(markup, "<script>") {
		t.Fatalf("value not escaped: %s", markup)
	}
	for _, want := range []string{
		`type="text"`,
		`name="firstName"`,
		`<label for="firstName">First Name`,
		` required`,
	} {
		if !strings.Contains(markup, want) {
			t.Fatalf("markup missing %q: %s", want, markup)
		}
	}
}

func TestBuildFieldMarkupErrorState(t *testing.T) {
	markup := buildFieldMarkup(FieldView{
		Name:      "email",
		Label:     "Email",
		InputType: "email",
		Error:     "Please enter a valid email address",
	})

	for _, want := range []string{
		`field-invalid`,
		`aria-invalid="true"`,
		`aria-describedby="email-error"`,
		`Please enter a valid email address`,
	} {
		if !strings.Contains(markup, want) {
			t.Fatalf("markup missing %q: %s", want, markup)
		}
	}
}

func TestBuildFormViewReflectsControllerState(t *testing.T) {
	fields := schema.UserFields()
	controller := form.NewController(fields)
	controller.Init(form.ModeEdit, schema.Draft{
		"firstName": "Alice",
		"lastName":  "Johnson",
		"email":     "alice@example.com",
		"phone":     "1234567890",
	})

	view := BuildFormView(fields, controller, "/users/1", "/")

	if view.Title != "Edit User" || view.SubmitLabel != "Save Changes" {
		t.Fatalf("edit mode labels wrong: %q / %q", view.Title, view.SubmitLabel)
	}
	if !view.Submittable {
		t.Fatal("fully seeded valid draft should be submittable")
	}

	names := make([]string, 0, len(view.Fields))
	for _, fv := range view.Fields {
		names = append(names, fv.Name)
	}
	want := []string{"firstName", "lastName", "email", "phone"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildListView(t *testing.T) {
	fields := schema.UserFields()
	records := []crud.Record{
		{ID: "a1", Values: schema.Draft{"firstName": "Alice", "email": "alice@example.com"}},
	}

	view := BuildListView(fields, records, DefaultListURLs())

	if view.Empty {
		t.Fatal("view should not be empty")
	}
	if len(view.Columns) != len(fields) {
		t.Fatalf("expected %d columns, got %d", len(fields), len(view.Columns))
	}
	row := view.Rows[0]
	wantCells := []string{"Alice", "", "alice@example.com", ""}
	if diff := cmp.Diff(wantCells, row.Cells); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
	if row.EditURL != "/users/a1/edit" || row.DeleteURL != "/users/a1/delete" {
		t.Fatalf("unexpected urls: %q %q", row.EditURL, row.DeleteURL)
	}
}

func TestFormPageRendersDocument(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	fields := schema.UserFields()
	controller := form.NewController(fields)

	view := BuildFormView(fields, controller, "/users", "/")
	view.Flash = "User created successfully"

	page, err := renderer.FormPage(view)
	if err != nil {
		t.Fatalf("form page: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"New User",
		`action="/users"`,
		`name="email"`,
		"User created successfully",
		":root {",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if !strings.Contains(page, "disabled") {
		t.Fatal("empty draft should render a disabled submit button")
	}
}

func TestListPageSanitizesFlash(t *testing.T) {
	renderer, err := New(WithTheme(ResolveTheme(DefaultManifest(), "dark")))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	view := BuildListView(schema.UserFields(), nil, DefaultListURLs())
	view.FlashError = `<img src=x onerror=alert(1)>user not found`

	page, err := renderer.ListPage(view)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}

	if strings.Contains(page, "<img") {
		t.Fatal("flash markup not sanitized")
	}
	if !strings.Contains(page, "user not found") {
		t.Fatal("flash text lost during sanitizing")
	}
	if !strings.Contains(page, `data-theme="dark"`) {
		t.Fatal("variant not reflected in page chrome")
	}
	if !strings.Contains(page, "No users yet") {
		t.Fatal("empty state missing")
	}
}
