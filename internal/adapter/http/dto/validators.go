package dto

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"wallet-service/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.:]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// RegisterValidators installs the custom tags used by this package.
func RegisterValidators(v *validator.Validate) {
	// decimal.Decimal is validated through its compact coefficient/exponent
	// form; d.String() would expand 1e50000000 into fifty million digits.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return compactDecimal(d)
		}
		return nil
	}, decimal.Decimal{})

	// Report wire names (walletId, Idempotency-Key) in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "header"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("safe_id", validateSafeID)
	_ = v.RegisterValidation("decimal_precision", validateDecimalPrecision)
}

// validateSafeID allows alphanumeric, underscore, dash, dot and colon.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// Coefficients past this many bits cannot fit any column we validate for.
const maxCoefficientBits = 256

func compactDecimal(d decimal.Decimal) string {
	coef := d.Coefficient()
	if coef.BitLen() > maxCoefficientBits {
		return "overflow"
	}
	return coef.String() + "e" + strconv.FormatInt(int64(d.Exponent()), 10)
}

// validateDecimalPrecision takes "precision.scale" like a NUMERIC column and
// rejects values that column would round or overflow.
func validateDecimalPrecision(fl validator.FieldLevel) bool {
	p, sc, ok := strings.Cut(fl.Param(), ".")
	if !ok {
		return false
	}
	precision, err := strconv.ParseInt(p, 10, 32)
	if err != nil {
		return false
	}
	scale, err := strconv.ParseInt(sc, 10, 32)
	if err != nil || scale > precision {
		return false
	}

	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return domain.FitsPrecision(d, int32(precision), int32(scale))
}
