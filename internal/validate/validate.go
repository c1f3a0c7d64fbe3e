// Package validate wraps go-playground/validator and converts its failures
// into *domain.ValidationError so callers only ever see domain errors.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

type svc struct {
	validator  *validator.Validate
	translator ut.Translator
}

var (
	once     sync.Once
	instance *svc
)

func get() *svc {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)
		registerShort(v, trans, "gt", "{0} must be greater than {1}")
		registerShort(v, trans, "max", "{0} must be at most {1}")
		registerShort(v, trans, "required_if", "{0} is required")

		v.RegisterStructValidation(alarmAddress, domain.AlarmConfig{})

		instance = &svc{validator: v, translator: trans}
	})
	return instance
}

// Struct validates s against its `validate` tags. Failures come back as a
// *domain.ValidationError listing every offending field.
func Struct(s any) error {
	err := get().validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError("", err.Error())
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(get().translator),
		})
	}
	return domain.NewValidationErrors(fields)
}

// alarmAddress checks the address shape only when notification is enabled.
func alarmAddress(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(domain.AlarmConfig)
	if !cfg.EmailNotification || cfg.EmailAddress == "" {
		return
	}
	if err := sl.Validator().Var(cfg.EmailAddress, "email"); err != nil {
		sl.ReportError(cfg.EmailAddress, "email_address", "EmailAddress", "email", "")
	}
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
