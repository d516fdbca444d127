package httpapi

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

// registerValidators ajoute le tag `visibility` au validator de gin.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseVisibility(fl.Field().String())
		return err == nil
	})
}
