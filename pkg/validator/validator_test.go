package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ProductID uuid.UUID       `validate:"uuid_required"`
	Quantity  int             `validate:"required,gt=0"`
	UnitPrice decimal.Decimal `validate:"required"`
}

func TestValidateStructAcceptsCompleteLine(t *testing.T) {
	errs := ValidateStruct(&line{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.RequireFromString("4.50")})
	assert.Empty(t, errs)
}

func TestValidateStructReportsEachMissingField(t *testing.T) {
	errs := ValidateStruct(&line{})
	require.Len(t, errs, 3)

	fields := []string{errs[0].FailedField, errs[1].FailedField, errs[2].FailedField}
	assert.Equal(t, []string{"line.ProductID", "line.Quantity", "line.UnitPrice"}, fields)
	assert.Equal(t, "uuid_required", errs[0].Tag)
	assert.Equal(t, "Field 'line.Quantity' failed on tag 'required'", errs[1].Error())
}

func TestValidateStructZeroDecimalIsMissing(t *testing.T) {
	errs := ValidateStruct(&line{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.Zero})
	require.Len(t, errs, 1)
	assert.Equal(t, "required", errs[0].Tag)
}
