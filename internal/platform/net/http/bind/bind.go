// Package bind decodes request bodies and runs struct validation, translating
// validator failures into perr validation errors with the offending json field
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "tomotrip/internal/platform/errors"
	"tomotrip/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps how much of a request body ParseJSON reads
const MaxBody = 64 << 10

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	checkerOnce sync.Once
	shared      checker
)

func get() checker {
	checkerOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = entrans.RegisterDefaultTranslations(v, trans)
		override(v, trans, "min", "{0} must be at least {1}")
		override(v, trans, "max", "{0} must be at most {1}")

		shared = checker{v: v, trans: trans}
	})
	return shared
}

// jsonName reports fields by their json key so messages match the request body
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// override swaps the stock translation, which differs by kind, for one short message
func override(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// ParseJSON decodes exactly one JSON object into T, rejecting unknown fields and
// trailing data, then validates it. Decode failures are ErrorCodeJSON and rule
// failures ErrorCodeValidation naming the first offending field.
func ParseJSON[T any](r *http.Request) (T, error) {
	var out T
	if r.Body == nil || r.Body == http.NoBody {
		return out, perr.JSONErrf("request body is empty")
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, perr.JSONErrf("request body is empty")
		}
		return out, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return out, perr.JSONErrf("unexpected data after the JSON object")
	}
	if err := Validate(r, out); err != nil {
		return out, err
	}
	return out, nil
}

// Validate runs the struct rules on v outside of body decoding
func Validate(r *http.Request, v any) error {
	err := get().v.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		logger.C(r.Context()).Error().Err(err).Msg("validator misuse")
		return perr.Wrap(err, perr.ErrorCodeUnknown, "validation failed")
	}
	fe := verrs[0]
	return perr.WithField(perr.Validationf("%s", fe.Translate(get().trans)), fe.Field())
}
