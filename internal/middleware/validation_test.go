package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

// checkoutRequest mirrors the shape of the checkout payload.
type checkoutRequest struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

// Property: a payload passes DecodeAndValidate exactly when every
// required field is present.
func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName, includePhone, includeAddress, includePayment bool) bool {
			reqMap := make(map[string]interface{})
			if includeName {
				reqMap["name"] = "Meera Pillai"
			}
			if includePhone {
				reqMap["phone"] = "9876543210"
			}
			if includeAddress {
				reqMap["address"] = "14 Weaver Lane, Mysuru"
			}
			if includePayment {
				reqMap["paymentMethod"] = "cod"
			}

			allPresent := includeName && includePhone && includeAddress && includePayment

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload checkoutRequest
			err := DecodeAndValidate(req, &payload)

			if allPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: formatted validation errors always name the failing field.
func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func(includePhone bool) bool {
			reqMap := map[string]interface{}{
				"name":          "Meera Pillai",
				"address":       "14 Weaver Lane, Mysuru",
				"paymentMethod": "cod",
			}
			if includePhone {
				reqMap["phone"] = "9876543210"
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload checkoutRequest
			err := DecodeAndValidate(req, &payload)

			if includePhone {
				return err == nil
			}
			if err == nil {
				return false
			}

			validationErrors := FormatValidationErrors(err)
			if len(validationErrors) == 0 {
				return false
			}
			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}
			return true
		},
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	var payload checkoutRequest
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Fatal("expected decode error for malformed JSON")
	}
}
