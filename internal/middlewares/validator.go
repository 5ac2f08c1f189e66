package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	h "dashboard/internal/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

type BodyKey struct{}
type QueryKey struct{}

// FieldQueryPrefix marks query parameters that filter dynamic document fields.
const FieldQueryPrefix = "field."

const maxBodySize = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator configures the shared validator. Reporting uses json field names.
func InitValidator() {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func getValidator() *validator.Validate {
	InitValidator()
	return validate
}

// ValidateStruct runs the shared validator and returns one error code per failing field.
func ValidateStruct(data any) []string {
	err := getValidator().Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"INVALID_REQUEST"}
	}

	codes := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		codes = append(codes, fmt.Sprintf("FIELD_%s_%s",
			strings.ToUpper(fieldErr.Field()),
			strings.ToUpper(fieldErr.Tag())))
	}
	return codes
}

func Validate[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data T

		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, []string{"INVALID_BODY"})
			return
		}

		if codes := ValidateStruct(data); codes != nil {
			h.RespondWithError(w, http.StatusBadRequest, codes)
			return
		}

		ctx := context.WithValue(r.Context(), BodyKey{}, data)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// queryToMap flattens url values for decoding: single values stay strings,
// repeated keys become lists and "field.<nome>" keys are grouped under "fields".
func queryToMap(r *http.Request) map[string]any {
	raw := make(map[string]any)
	fields := make(map[string]any)

	for key, values := range r.URL.Query() {
		if nome, ok := strings.CutPrefix(key, FieldQueryPrefix); ok {
			if nome != "" {
				fields[nome] = values
			}
			continue
		}

		if len(values) == 1 {
			raw[key] = values[0]
		} else {
			raw[key] = values
		}
	}

	if len(fields) > 0 {
		raw["fields"] = fields
	}
	return raw
}

func DecodeQuery[T any](r *http.Request) (T, error) {
	var data T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &data,
	})
	if err != nil {
		return data, err
	}

	if err = decoder.Decode(queryToMap(r)); err != nil {
		return data, err
	}
	return data, nil
}

func ValidateQuery[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := DecodeQuery[T](r)
		if err != nil {
			h.RespondWithError(w, http.StatusBadRequest, []string{"INVALID_QUERY_PARAMS"})
			return
		}

		if codes := ValidateStruct(data); codes != nil {
			h.RespondWithError(w, http.StatusBadRequest, codes)
			return
		}

		ctx := context.WithValue(r.Context(), QueryKey{}, data)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
