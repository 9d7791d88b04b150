package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expensePayload struct {
	Category string  `validate:"omitempty,expense_category"`
	Currency string  `validate:"omitempty,currency_code"`
	Amount   float64 `validate:"required,gt=0"`
}

func TestValidateStruct_ExpenseCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		valid    bool
	}{
		{"known category", "food", true},
		{"case insensitive", "Hotel", true},
		{"travel", "travel", true},
		{"unknown category", "gadgets", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(expensePayload{Category: tt.category, Amount: 10})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateStruct_CurrencyCode(t *testing.T) {
	assert.NoError(t, ValidateStruct(expensePayload{Currency: "USD", Amount: 10}))
	assert.NoError(t, ValidateStruct(expensePayload{Currency: "EUR", Amount: 10}))
	assert.Error(t, ValidateStruct(expensePayload{Currency: "usd", Amount: 10}))
	assert.Error(t, ValidateStruct(expensePayload{Currency: "DOLLARS", Amount: 10}))
}

func TestValidateStruct_FieldMessages(t *testing.T) {
	err := ValidateStruct(expensePayload{Category: "gadgets", Currency: "usd", Amount: 10})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	msg, ok := valErr.GetFieldError("Category")
	require.True(t, ok)
	assert.Contains(t, msg, "valid expense category")
	msg, ok = valErr.GetFieldError("Currency")
	require.True(t, ok)
	assert.Contains(t, msg, "ISO currency code")
}

func TestValidateStruct_RequiredAmount(t *testing.T) {
	err := ValidateStruct(expensePayload{})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.True(t, valErr.HasErrors())
	_, ok := valErr.GetFieldError("Amount")
	assert.True(t, ok)
}
