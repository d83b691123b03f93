package validation

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Entity schemas.
var (
	UserSchema = Schema{
		Entity: "user",
		Fields: []Field{
			{Name: "name", Type: TypeString, Required: true, Format: NotBlank},
			{Name: "email", Type: TypeString, Required: true, Format: Email},
		},
	}

	ProductSchema = Schema{
		Entity: "product",
		Fields: []Field{
			{Name: "product_name", Type: TypeString, Required: true, Format: NotBlank},
			{Name: "price", Type: TypeNumber, Required: true, Format: Price},
		},
	}

	OrderSchema = Schema{
		Entity: "order",
		Fields: []Field{
			{Name: "user_id", Type: TypeInteger, Required: true},
			{Name: "order_date", Type: TypeTimestamp},
		},
	}

	OrderProductSchema = Schema{
		Entity: "order_product",
		Fields: []Field{
			{Name: "order_id", Type: TypeInteger, Required: true, Format: Positive},
			{Name: "product_id", Type: TypeInteger, Required: true, Format: Positive},
		},
	}

	// ProductRefSchema is the body of a remove-product request.
	ProductRefSchema = Schema{
		Entity: "product_ref",
		Fields: []Field{
			{Name: "product_id", Type: TypeInteger, Required: true},
		},
	}
)

// NotBlank rejects empty or whitespace-only strings.
func NotBlank(v any) string {
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return MsgBlank
	}
	return ""
}

// Email rejects strings that are not a valid email address.
func Email(v any) string {
	s, _ := v.(string)
	if err := validate.Var(s, "required,email"); err != nil {
		return MsgNotEmail
	}
	return ""
}

// NonNegative rejects numbers below zero.
func NonNegative(v any) string {
	f, _ := v.(float64)
	if f < 0 {
		return MsgNegative
	}
	return ""
}

// MaxPrice is the exclusive upper bound of a price, the first value that
// does not fit NUMERIC(12, 2).
const MaxPrice = 1e10

// Price rejects negative amounts and amounts that reach MaxPrice once rounded
// to cents.
func Price(v any) string {
	if msg := NonNegative(v); msg != "" {
		return msg
	}
	f, _ := v.(float64)
	if math.Round(f*100)/100 >= MaxPrice {
		return MsgTooLarge
	}
	return ""
}

// Positive rejects integers below one.
func Positive(v any) string {
	i, _ := v.(int64)
	if i < 1 {
		return MsgNotPositive
	}
	return ""
}
