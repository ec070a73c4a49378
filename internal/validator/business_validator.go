package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

const (
	maxReferenceNameLength = 255
	maxPresenceCount       = 10000
)

// BusinessValidator holds the request rules that depend on more than one field
type BusinessValidator struct {
	parent *Validator
}

func newBusinessValidator(parent *Validator) *BusinessValidator {
	return &BusinessValidator{parent: parent}
}

// ValidateRoleUpdate checks only the shape of the role field; domain checks happen later
func (bv *BusinessValidator) ValidateRoleUpdate(req *UpdateUserRoleRequest) utils.ValidationErrors {
	return bv.parent.ValidateStruct(req)
}

// ValidateReference validates a reference payload for the given kind.
// Diseases and skills must name their station; updates must carry an id.
func (bv *BusinessValidator) ValidateReference(kind models.ReferenceKind, req *ReferenceRequest, update bool) utils.ValidationErrors {
	var errs utils.ValidationErrors

	if update && req.ID == 0 {
		errs = append(errs, utils.ValidationError{
			Field:   "id",
			Message: "is required",
			Rule:    "required",
		})
	}

	errs = append(errs, bv.parent.ValidateStruct(req)...)

	if kind.Stationed() && (req.Station == nil || *req.Station == 0) {
		errs = append(errs, utils.ValidationError{
			Field:   "station",
			Message: "is required",
			Rule:    "required",
		})
	}

	return errs
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	v := bv.parent.validate

	// Role name must be present; membership is checked by the role workflow
	v.RegisterValidation("role_name", func(fl validator.FieldLevel) bool {
		role := strings.TrimSpace(fl.Field().String())
		return role != "" && len(role) <= 32
	})

	// Reference names (1-255 characters after trimming)
	v.RegisterValidation("reference_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		n := utf8.RuneCountInString(name)
		return n >= 1 && n <= maxReferenceNameLength
	})

	v.RegisterValidation("presence_count", func(fl validator.FieldLevel) bool {
		count := fl.Field().Int()
		return count >= 0 && count <= maxPresenceCount
	})
}
