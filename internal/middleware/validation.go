package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/edverse/registrar/internal/pkg/validation"
)

// RegisterCustomValidators attaches the domain validation tags to gin's
// binding engine and makes field errors report json names.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Validation errors must name the field as the client sent it
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("studentnumber", func(fl validator.FieldLevel) bool {
		return validation.CompiledPatterns.StudentNumber.MatchString(fl.Field().String())
	})
}
