package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// BarsRequest selects the resampling interval for a symbol's bars.
type BarsRequest struct {
	Symbol   string `param:"symbol" validate:"required"`
	Interval string `query:"interval" default:"day" validate:"omitempty,oneof=day daily 1d week weekly 1w 1wk month monthly 1mo 1m"`
}

// IndicatorsRequest recomputes indicators with custom periods.
type IndicatorsRequest struct {
	Symbol   string `param:"symbol" validate:"required"`
	SMA      []int  `query:"sma" default:"[20,50]" validate:"min=1,max=8,dive,gt=0,lte=500"`
	RSI      int    `query:"rsi" default:"14" validate:"gt=0,lte=500"`
	Fast     int    `query:"fast" default:"12" validate:"gt=0,ltfield=Slow"`
	Slow     int    `query:"slow" default:"26" validate:"gt=0,lte=500"`
	Interval string `query:"interval" default:"day" validate:"omitempty,oneof=day daily 1d week weekly 1w 1wk month monthly 1mo 1m"`
}

// HistoryRequest pages recorded snapshots.
type HistoryRequest struct {
	Symbol string `param:"symbol" validate:"required"`
	Limit  int    `query:"limit" default:"50" validate:"gt=0,lte=1000"`
}

// ReadAndValidateRequest fills defaults, binds the request over them and validates req.
// Explicit values, zero included, win over defaults. It returns nil when req is usable.
func ReadAndValidateRequest(c echo.Context, req interface{}) []ValidationError {
	if err := defaults.Set(req); err != nil {
		return validationErrors(err)
	}
	if err := c.Bind(req); err != nil {
		return validationErrors(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return validationErrors(err)
	}
	return nil
}

func validationErrors(err error) []ValidationError {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := make([]ValidationError, 0, len(ves))
		for _, fe := range ves {
			out = append(out, ValidationError{
				Code:    "ERR_" + strings.ToUpper(fe.Tag()),
				Field:   fe.Field(),
				Message: fieldMessage(fe),
				Params:  fieldParams(fe),
			})
		}
		return out
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return []ValidationError{{Code: "ERR_UNKNOWN", Message: fmt.Sprintf("%v", he.Message)}}
	}
	return []ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s values", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s values", field, fe.Param())
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func fieldParams(fe validator.FieldError) map[string]interface{} {
	switch fe.Tag() {
	case "min", "max", "gt", "lte", "ltfield":
		return map[string]interface{}{"value": fe.Param()}
	case "oneof":
		return map[string]interface{}{"options": strings.Split(fe.Param(), " ")}
	}
	return nil
}
