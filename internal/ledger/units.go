package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnitDecimals is the number of decimal places in the ledger's integer units.
const UnitDecimals = 6

// ToUnits converts a USD amount to ledger integer units, rounding down.
// Rounding down keeps the on-ledger cap at or below the computed one.
func ToUnits(amountUsd decimal.Decimal) (int64, error) {
	if amountUsd.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", amountUsd)
	}

	units := amountUsd.Shift(UnitDecimals).Floor()
	if !units.IsInteger() {
		return 0, fmt.Errorf("amount %s did not floor to integer units", amountUsd)
	}
	if units.Cmp(decimal.NewFromInt(maxInt64)) > 0 {
		return 0, fmt.Errorf("amount %s overflows ledger units", amountUsd)
	}

	return units.IntPart(), nil
}

const maxInt64 = int64(^uint64(0) >> 1)
