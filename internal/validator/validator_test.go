package validator

import (
	"errors"
	"testing"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

func uintPtr(v uint) *uint { return &v }

func TestValidateRoleUpdate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		req       UpdateUserRoleRequest
		wantField string
	}{
		{name: "valid role", req: UpdateUserRoleRequest{Role: "student", ID: 2}},
		{name: "unknown role passes shape check", req: UpdateUserRoleRequest{Role: "wizard", ID: 2}},
		{name: "empty role", req: UpdateUserRoleRequest{Role: "", ID: 2}, wantField: "role"},
		{name: "blank role", req: UpdateUserRoleRequest{Role: "   ", ID: 2}, wantField: "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.GetBusinessValidator().ValidateRoleUpdate(&tt.req)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			first, ok := errs.First()
			if !ok {
				t.Fatal("expected a validation error")
			}
			if first.Field != tt.wantField {
				t.Errorf("field = %q, want %q", first.Field, tt.wantField)
			}
		})
	}
}

func TestValidateReference(t *testing.T) {
	v := New().GetBusinessValidator()

	tests := []struct {
		name   string
		kind   models.ReferenceKind
		req    ReferenceRequest
		update bool
		fields []string
	}{
		{name: "station ok", kind: models.KindStation, req: ReferenceRequest{Name: "Interna"}},
		{name: "disease needs station", kind: models.KindDisease, req: ReferenceRequest{Name: "Typhoid"}, fields: []string{"station"}},
		{name: "skill ok", kind: models.KindSkill, req: ReferenceRequest{Name: "Suturing", Station: uintPtr(1)}},
		{name: "empty name", kind: models.KindHospital, req: ReferenceRequest{Name: " "}, fields: []string{"name"}},
		{name: "update needs id", kind: models.KindGuidance, req: ReferenceRequest{Name: "Bedside"}, update: true, fields: []string{"id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateReference(tt.kind, &tt.req, tt.update)
			if len(errs) != len(tt.fields) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.fields))
			}
			for i, f := range tt.fields {
				if errs[i].Field != f {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, f)
				}
			}
		})
	}
}

func TestValidate_PresenceCounts(t *testing.T) {
	v := New()

	err := v.Validate(&PresenceRequest{StudentID: 1, StationID: 1, Present: 3, Sick: -1})
	var verrs utils.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() error = %v, want utils.ValidationErrors", err)
	}
	if verrs[0].Field != "sick" || verrs[0].Rule != "presence_count" {
		t.Errorf("first error = %+v", verrs[0])
	}

	if err := v.Validate(&PresenceRequest{StudentID: 1, StationID: 1}); err != nil {
		t.Errorf("zero counts should be valid, got %v", err)
	}
}
