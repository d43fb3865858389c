// Package bind binds URL query parameters into structs and validates them
package bind

import (
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	perr "jmnedict/internal/platform/errors"
	"jmnedict/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds the validator singleton and its translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// Get returns the validator singleton, initializing it on first use. Messages
// name fields by their query tag
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		short(v, trans, "min", "{0} must be at least {1}")
		short(v, trans, "max", "{0} must be at most {1}")

		_ = v.RegisterValidation("lang", isLang)
		short(v, trans, "lang", "{0} must be a three letter language code")

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Query decodes r's URL query into T using `query:"name"` tags, applies
// `default:"..."` values for absent parameters and validates the result
func Query[T any](r *http.Request) (T, error) {
	var dst T
	if err := decode(r.URL.Query(), &dst); err != nil {
		return dst, err
	}
	if err := Get().Validator.Struct(dst); err != nil {
		if inv, ok := err.(*validator.InvalidValidationError); ok {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return dst, perr.Newf(perr.ErrorCodeUnknown, "validation error")
		}
		field, msg := FieldAndMessage(err)
		return dst, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return dst, nil
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}

func decode(vals url.Values, dst any) error {
	rv := reflect.ValueOf(dst).Elem()
	if rv.Kind() != reflect.Struct {
		return perr.Newf(perr.ErrorCodeUnknown, "bind: %s is not a struct", rv.Type())
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := tagName(sf.Tag.Get("query"))
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		raw, present := vals[name]
		if !present || len(raw) == 0 {
			def, ok := sf.Tag.Lookup("default")
			if !ok {
				continue
			}
			raw = []string{def}
		}
		if err := set(rv.Field(i), raw); err != nil {
			return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s: %v", name, err), name)
		}
	}
	return nil
}

func set(f reflect.Value, raw []string) error {
	if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
		var out []string
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
		f.Set(reflect.ValueOf(out))
		return nil
	}
	s := strings.TrimSpace(raw[len(raw)-1])
	switch f.Kind() {
	case reflect.String:
		f.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, f.Type().Bits())
		if err != nil {
			return errNotNumber
		}
		f.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, f.Type().Bits())
		if err != nil {
			return errNotNumber
		}
		f.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return errNotBool
		}
		f.SetBool(b)
	default:
		return perr.Newf(perr.ErrorCodeUnknown, "unsupported field kind %s", f.Kind())
	}
	return nil
}

var (
	errNotNumber = perr.New(perr.ErrorCodeValidation, "must be a whole number")
	errNotBool   = perr.New(perr.ErrorCodeValidation, "must be true or false")
)

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"query", "json"} {
		if n := tagName(fld.Tag.Get(key)); n != "" && n != "-" {
			return n
		}
	}
	return fld.Name
}

func tagName(tag string) string {
	if i := strings.IndexByte(tag, ','); i >= 0 {
		return tag[:i]
	}
	return tag
}

// isLang accepts ISO 639-2 style codes such as eng, ger, fre
func isLang(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
