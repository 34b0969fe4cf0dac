package middlewares

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

type DefaultValidator struct {
	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
}

var _ binding.StructValidator = &DefaultValidator{}

func (v *DefaultValidator) ValidateStruct(obj any) error {
	if kindOfData(obj) == reflect.Struct {
		v.lazyinit()
		if err := v.validate.Struct(obj); err != nil {
			return err
		}
	}
	return nil
}

func (v *DefaultValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *DefaultValidator) Translator() ut.Translator {
	v.lazyinit()
	return v.translator
}

func (v *DefaultValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(jsonFieldName)

		v.validate.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return pincodePattern.MatchString(fl.Field().String())
		})
		v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
		})

		en := en.New()
		uni := ut.New(en, en)

		v.translator, _ = uni.GetTranslator("en")

		en_translations.RegisterDefaultTranslations(v.validate, v.translator)

		v.registerCustomTranslations()
	})
}

// translations override the library defaults. Entries with withParam render {1}.
var translations = []struct {
	tag       string
	text      string
	withParam bool
}{
	{"required", "{0} is required", false},
	{"max", "{0} must be at most {1}", true},
	{"min", "{0} must be at least {1}", true},
	{"email", "{0} must be a valid email address", false},
	{"gt", "{0} must be greater than {1}", true},
	{"gte", "{0} must be greater than or equal to {1}", true},
	{"lte", "{0} must be less than or equal to {1}", true},
	{"oneof", "{0} must be one of [{1}]", true},
	{"uuid", "{0} must be a valid UUID", false},
	{"dive", "{0} contains an invalid entry", false},
	{"pincode", "{0} must be a 6 digit postal code", false},
	{"phone", "{0} must be a phone number of 10 to 15 digits", false},
}

func (v *DefaultValidator) registerCustomTranslations() {
	for _, tr := range translations {
		v.validate.RegisterTranslation(tr.tag, v.translator, func(ut ut.Translator) error {
			return ut.Add(tr.tag, tr.text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			var t string
			if tr.withParam {
				t, _ = ut.T(tr.tag, fe.Field(), fe.Param())
			} else {
				t, _ = ut.T(tr.tag, fe.Field())
			}
			return t
		})
	}
}

func TranslateValidationErrors(err error) []string {
	var messages []string

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if v, ok := binding.Validator.(*DefaultValidator); ok {
			trans := v.Translator()
			for _, e := range validationErrs {
				messages = append(messages, e.Translate(trans))
			}
		}
	}

	return messages
}

func TranslateValidationError(err error) string {
	messages := TranslateValidationErrors(err)
	if len(messages) > 0 {
		return messages[0]
	}
	return err.Error()
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

func kindOfData(data any) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()

	if valueType == reflect.Pointer {
		valueType = value.Elem().Kind()
	}

	return valueType
}
