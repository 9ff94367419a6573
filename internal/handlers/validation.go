package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	validator "github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// enumerated is implemented by the closed string sets of the models
type enumerated interface {
	IsValid() bool
}

// RegisterValidations adds the "enum" binding rule to gin's validator
func RegisterValidations() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("binding validator is not go-playground/validator")
			return
		}
		err = v.RegisterValidation("enum", validateEnum)
	})
	return err
}

func validateEnum(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(enumerated)
	if !ok {
		return true
	}
	return value.IsValid()
}
