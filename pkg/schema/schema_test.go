package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-userdesk/pkg/schema"
)

func TestFindAndHas(t *testing.T) {
	fields := schema.UserFields()

	field, ok := fields.Find("email")
	if !ok {
		t.Fatalf("expected email descriptor")
	}
	if field.Kind != schema.FieldEmail {
		t.Fatalf("email kind mismatch: got %s", field.Kind)
	}
	if field.Validator != schema.ValidatorEmail {
		t.Fatalf("email validator mismatch: got %s", field.Validator)
	}

	if _, ok := fields.Find("nickname"); ok {
		t.Fatalf("did not expect a descriptor for nickname")
	}
	if fields.Has("nickname") {
		t.Fatalf("Has should be false for unknown field")
	}
}

func TestNamesPreserveDeclarationOrder(t *testing.T) {
	got := schema.UserFields().Names()
	want := []string{"firstName", "lastName", "email", "phone"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultDraft(t *testing.T) {
	fields := schema.UserFields()

	got := fields.DefaultDraft()
	want := schema.Draft{
		"firstName": "",
		"lastName":  "",
		"email":     "",
		"phone":     "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("default draft mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		fields  schema.Fields
		wantErr bool
	}{
		{name: "canonical schema", fields: schema.UserFields()},
		{name: "empty list", fields: schema.Fields{}, wantErr: true},
		{
			name: "blank name",
			fields: schema.Fields{
				{Name: " ", Label: "Blank"},
			},
			wantErr: true,
		},
		{
			name: "duplicate name",
			fields: schema.Fields{
				{Name: "email", Label: "Email"},
				{Name: "email", Label: "Email Again"},
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fields.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDraftCloneIsIndependent(t *testing.T) {
	original := schema.Draft{"firstName": "Alice"}
	clone := original.Clone()
	clone["firstName"] = "Bob"

	if original["firstName"] != "Alice" {
		t.Fatalf("clone mutated the original draft")
	}
	if original.Value("missing") != "" {
		t.Fatalf("Value should return empty string for absent keys")
	}
}
