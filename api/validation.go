package api

import (
	"log"
	"sync"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the travel_type rule to gin's binding validator.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Printf("binding validator is %T, custom rules not registered", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("travel_type", validTravelType); err != nil {
			log.Printf("register travel_type validation: %v", err)
		}
	})
}

func validTravelType(fl validator.FieldLevel) bool {
	_, err := domain.ParseTravelType(fl.Field().String())
	return err == nil
}
