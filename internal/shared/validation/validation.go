package validation

import (
	"regexp"

	"circustix/internal/pricing"
	"circustix/internal/reservations"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var showContextPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

var ticketTypeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	if !ok {
		if tt, isType := fl.Field().Interface().(pricing.TicketType); isType {
			return tt.IsValid()
		}
		return false
	}
	return pricing.TicketType(v).IsValid()
}

var orderStatusValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case string:
		return reservations.Status(v).IsValid()
	case reservations.Status:
		return v.IsValid()
	default:
		return false
	}
}

var showContextValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	return ok && showContextPattern.MatchString(v)
}

// Register installs the box office rules on a validator instance
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"ticket_type":  ticketTypeValidatorFunc,
		"order_status": orderStatusValidatorFunc,
		"show_context": showContextValidatorFunc,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterWithGin installs the rules on gin's binding engine
func RegisterWithGin() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return Register(v)
	}
	return nil
}

// IsShowContext reports whether s is a well-formed show context key
func IsShowContext(s string) bool {
	return showContextPattern.MatchString(s)
}
