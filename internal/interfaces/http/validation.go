package http

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fleetops/fleet-reports/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the report tags to gin's validator:
//
//	isodate   empty or YYYY-MM-DD
//	entrykind a record kind that can be deleted
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("isodate", isoDate)
		_ = v.RegisterValidation("entrykind", entryKind)
	})
}

func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || models.CalendarDate(s) == s
}

func entryKind(fl validator.FieldLevel) bool {
	_, err := models.ParseKind(fl.Field().String())
	return err == nil
}
