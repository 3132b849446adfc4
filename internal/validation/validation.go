// Package validation checks entities and request payloads against their field
// constraints without touching storage.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	apperrors "devcamper/internal/errors"
	"devcamper/internal/model"
)

var (
	websitePattern = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)
	// One address format for every entity that stores a contact email.
	emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
)

var customMessages = map[string]string{
	"website":         "{0} must be a valid URL with HTTP or HTTPS",
	"contact_email":   "{0} must be a valid email",
	"bootcamp_career": "{0} must be one of: " + strings.Join(model.BootcampCareers, ", "),
	"course_career":   "{0} must be one of: " + strings.Join(model.CourseCareers, ", "),
}

// Validator validates structs and renders failures as English sentences.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with the custom rules used by the models.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	must(v.RegisterValidation("website", matches(websitePattern)))
	must(v.RegisterValidation("contact_email", matches(emailPattern)))
	must(v.RegisterValidation("bootcamp_career", oneOf(model.BootcampCareers)))
	must(v.RegisterValidation("course_career", oneOf(model.CourseCareers)))

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	must(en_translations.RegisterDefaultTranslations(v, trans))
	for tag, msg := range customMessages {
		must(v.RegisterTranslation(tag, trans, register(tag, msg), translate))
	}

	return &Validator{validate: v, trans: trans}
}

// Struct validates s. Failures are returned as a single 400 error whose message
// lists every violated constraint.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("%s", err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(v.trans))
	}
	return apperrors.Validation("%s", strings.Join(msgs, ", "))
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.Struct(i)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return strings.ToLower(fld.Name[:1]) + fld.Name[1:]
	}
	return name
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

func register(tag, msg string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}
}

func translate(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
