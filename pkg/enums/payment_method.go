package enums

import "fmt"

// PaymentMethod identifies the mobile money provider used for a payment.
type PaymentMethod string

const (
	PaymentMethodMTNMoMo     PaymentMethod = "mtn_momo"
	PaymentMethodOrangeMoney PaymentMethod = "orange_money"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodMTNMoMo,
	PaymentMethodOrangeMoney,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
