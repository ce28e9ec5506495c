// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"silvercoin/internal/models"
)

var maxMoney, _ = models.MaxMoney.Float64()

// Register registers all custom validators with the Gin binding engine.
// Field errors are reported under their JSON names, and decimal.Decimal
// fields validate as numbers so tags like gt=0 apply to them.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("period_type", validatePeriodType)
		_ = v.RegisterValidation("amount_type", validateAmountType)
		_ = v.RegisterValidation("money", validateMoney)
	}
}

// FieldErrors converts binding validation errors into a map of field path to
// message. It returns nil for any other kind of error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return fields
}

func jsonTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func decimalValue(v reflect.Value) interface{} {
	if d, ok := v.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// fieldPath drops the top-level struct name from the namespace, so a nested
// error reads "incomes[0].amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "cannot be greater than " + fe.Param() + " characters"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "uuid":
		return "must be a valid id"
	case "period_type":
		return "must be one of days, weeks, months, years"
	case "amount_type":
		return "must be income or expense"
	case "money":
		return "must be at most 99999.99 with no more than 2 decimal places"
	}
	return "failed " + fe.Tag() + " validation"
}

func validatePeriodType(fl validator.FieldLevel) bool {
	return models.PeriodType(fl.Field().String()).Valid()
}

func validateAmountType(fl validator.FieldLevel) bool {
	return models.AmountType(fl.Field().String()).Valid()
}

// validateMoney receives the float form produced by decimalValue.
func validateMoney(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	cents := f * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6 && f <= maxMoney
}
