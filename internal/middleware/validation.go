package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "ghostpayroll/internal/errors"
	"ghostpayroll/pkg/contracts/domain"
)

// Validator wraps go-playground/validator with the service's custom tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports JSON field names and knows
// the dataset and upload filename rules
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("datasetkind", isDatasetKind)
	v.RegisterValidation("uploadname", isUploadName)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// ValidateStruct validates v and converts failures to an APIError whose
// details list every offending field
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	details := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", details[0].Message, details)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(err.Param(), " ", ", "))
	case "datasetkind":
		return fmt.Sprintf("%s must be a known dataset type", field)
	case "uploadname":
		return fmt.Sprintf("%s must be a plain .csv or .xlsx filename", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, err.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isDatasetKind accepts the four upload slot names
func isDatasetKind(fl validator.FieldLevel) bool {
	return domain.DatasetKind(fl.Field().String()).Valid()
}

// isUploadName rejects path components and unsupported extensions
func isUploadName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || len(name) > 255 {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".txt", "":
		return true
	default:
		return false
	}
}
