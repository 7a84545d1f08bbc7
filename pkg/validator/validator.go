package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe una regla incumplida por un campo.
type FieldError struct {
	Field string // nombre JSON del campo
	Tag   string // regla incumplida (required, gt, ...)
	Param string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Reportar los campos por su nombre JSON, que es el que ven los clientes.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// RegisterValidation agrega una regla personalizada al validador compartido.
// Debe llamarse durante la inicialización del paquete que la usa.
func RegisterValidation(tag string, fn func(value string) bool) {
	if err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	}); err != nil {
		panic("validator: registrar regla " + tag + ": " + err.Error())
	}
}

// ValidateStruct valida data y devuelve los campos con error, en el orden de declaración.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Tag: "invalid", Param: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Tag: e.Tag(), Param: e.Param()})
	}
	return out
}
