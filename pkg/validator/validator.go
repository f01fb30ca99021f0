package validator

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"anoa.com/academicrecords/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct validates v against its `validate` tags. Failures are returned as
// a 400 AppError carrying a readable message.
func Struct(v any) error {
	if err := instance().Struct(v); err != nil {
		return apperror.New(http.StatusBadRequest, FormatValidationError(err), apperror.ErrInvalidInput)
	}
	return nil
}

// StructExcept is Struct without the named fields, for entities whose id
// is assigned when they are stored.
func StructExcept(v any, fields ...string) error {
	if err := instance().StructExcept(v, fields...); err != nil {
		return apperror.New(http.StatusBadRequest, FormatValidationError(err), apperror.ErrInvalidInput)
	}
	return nil
}

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "numeric":
		return fmt.Sprintf("%s must be a number", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min", "gte":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", field, getFieldName(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"ID":           "ID",
		"UserID":       "User ID",
		"Password":     "Password",
		"Role":         "Role",
		"FullName":     "Full name",
		"DOB":          "Date of birth",
		"SupervisorID": "Supervisor",
		"ModuleCode":   "Module code",
		"MaxMarks":     "Max marks",
		"MinMarks":     "Min marks",
		"AssessmentID": "Assessment",
		"StudentID":    "Student",
		"LecturerID":   "Lecturer",
		"ClassID":      "Class",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
