package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	attendanceTag  = "attendance"
	attendanceText = "{0} must be one of hadir, sakit, ijin, alfa"
	weekdayTag     = "weekday"
	weekdayText    = "{0} must be a day name such as Monday"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON field names rather than Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(attendanceTag, func(fl validator.FieldLevel) bool {
		return AttendanceStatus(fl.Field().String()).Valid()
	})
	registerTranslation(attendanceTag, attendanceText)

	_ = validate.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
		return WeekdayIndex(fl.Field().String()) >= 0
	})
	registerTranslation(weekdayTag, weekdayText)
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidationError lists the field problems found in one entity.
type ValidationError struct {
	Entity string
	Fields map[string]string // JSON field name -> message
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

// IsValidationError returns true if err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the validate tags on v. entity names the record kind in
// error messages. It returns a *ValidationError on failure.
func Validate(entity string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %s: %w", entity, err)
	}
	ve := &ValidationError{Entity: entity, Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field()] = fe.Translate(translator)
	}
	return ve
}
