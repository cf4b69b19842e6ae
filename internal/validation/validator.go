package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/vinstock/internal/domain/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	_ = validate.RegisterValidation("winetype", validateWineType)
	_ = validate.RegisterValidation("flowtype", validateFlowType)
	_ = validate.RegisterValidation("rulefield", validateRuleField)
	_ = validate.RegisterValidation("ruleoperator", validateRuleOperator)
	_ = validate.RegisterValidation("saledate", validateSaleDate)
}

// ValidateStruct checks s against its validate tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// SaleDateLayout is the calendar date format accepted for sales.
const SaleDateLayout = "2006-01-02"

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func validateWineType(fl validator.FieldLevel) bool {
	return models.WineType(fl.Field().String()).Valid()
}

func validateFlowType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateRuleField(fl validator.FieldLevel) bool {
	return models.RuleField(fl.Field().String()).Valid()
}

func validateRuleOperator(fl validator.FieldLevel) bool {
	return models.RuleOperator(fl.Field().String()).Valid()
}

func validateSaleDate(fl validator.FieldLevel) bool {
	_, err := ParseSaleDate(fl.Field().String())
	return err == nil
}

// ParseSaleDate reads a YYYY-MM-DD date as midnight UTC.
func ParseSaleDate(value string) (time.Time, error) {
	return time.Parse(SaleDateLayout, value)
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error carries the field errors of a rejected input.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

// Single builds an Error for one field.
func Single(field, tag, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Tag: tag, Message: message}}}
}

// GetValidationErrors flattens validator errors into FieldErrors. Errors that
// already carry field details are returned as-is.
func GetValidationErrors(err error) []FieldError {
	var own *Error
	if errors.As(err, &own) {
		return own.Fields
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fields := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Message: getValidationMessage(e),
		})
	}
	return fields
}

// Check runs ValidateStruct and converts a failure into an *Error.
func Check(s interface{}) error {
	if err := ValidateStruct(s); err != nil {
		return &Error{Fields: GetValidationErrors(err)}
	}
	return nil
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "winetype":
		return e.Field() + " must be one of Rouge, Blanc, Rosé, Effervescent, Moelleux"
	case "flowtype":
		return e.Field() + " must be one of Vente, Perte, Casse, Péremption"
	case "rulefield":
		return e.Field() + " is not a comparable wine attribute"
	case "ruleoperator":
		return e.Field() + " must be one of less, greater, equal, contains"
	case "saledate":
		return e.Field() + " must be a YYYY-MM-DD date"
	default:
		return e.Field() + " is invalid"
	}
}
