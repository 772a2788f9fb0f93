package kernel

import (
	"fmt"

	"halforder/internal/pkg/errs"
	"halforder/internal/pkg/guard"
)

// ErrMoneyIsNotConstructed is returned when a zero-value Money is used.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney")

// Money is an amount in paise (1/100 of a rupee). Integer storage keeps order
// totals exact across summation.
type Money struct { //nolint:recvcheck //using for validation
	paise int64
	guard guard.ConstructorGuard
}

// NewMoney builds a non-negative amount expressed in paise.
func NewMoney(paise int64) (Money, error) {
	if paise < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("price", paise, 0, "unbounded")
	}
	return Money{paise: paise, guard: guard.NewConstructorGuard()}, nil
}

// Rupees builds Money from whole rupees.
func Rupees(r int64) Money {
	m, err := NewMoney(r * 100)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero is ₹0.00.
func Zero() Money {
	return Money{guard: guard.NewConstructorGuard()}
}

func (m Money) Paise() int64 {
	return m.paise
}

func (m Money) Add(other Money) Money {
	return Money{paise: m.paise + other.paise, guard: guard.NewConstructorGuard()}
}

func (m Money) IsZero() bool {
	return m.paise == 0
}

func (m Money) IsEqual(other Money) bool {
	return m.paise == other.paise
}

// String renders the amount as "₹430.00".
func (m Money) String() string {
	return fmt.Sprintf("₹%d.%02d", m.paise/100, m.paise%100)
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
