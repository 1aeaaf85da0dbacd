package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

func TestParseOrderInput(t *testing.T) {
	lines, err := ParseOrderInput("A1004292:2;A1004293:0.5;")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "A1004292", lines[0].Code)
	require.True(t, lines[0].Quantity.Equal(decimal.NewFromInt(2)))
	require.Equal(t, "A1004293", lines[1].Code)
	require.True(t, lines[1].Quantity.Equal(decimal.RequireFromString("0.5")))
}

func TestParseOrderInput_Errors(t *testing.T) {
	cases := map[string]error{
		"":            ErrEmptyOrderInput,
		"   ":         ErrEmptyOrderInput,
		";;":          ErrEmptyOrderInput,
		"HOT001":      ErrMalformedLine,
		"HOT001:1:2":  ErrMalformedLine,
		"HOT001:abc":  ErrInvalidQuantity,
		"HOT001:0":    ErrInvalidQuantity,
		"HOT001:-1.5": ErrInvalidQuantity,
	}
	for raw, want := range cases {
		_, err := ParseOrderInput(raw)
		require.ErrorIs(t, err, want, "input %q", raw)
	}
}

func TestResolveLines_MatchesArticleThenID(t *testing.T) {
	borscht, err := domain.NewDish("1", "HOT001", "Борщ с пампушками", decimal.RequireFromString("280.50"), false, "")
	require.NoError(t, err)
	caesar, err := domain.NewDish("7", "SAL001", "Цезарь с курицей", decimal.NewFromInt(380), false, "")
	require.NoError(t, err)
	menu := []*domain.Dish{borscht, caesar}

	input, err := ResolveLines(menu, []OrderLineRequest{
		{Code: "HOT001", Quantity: decimal.NewFromInt(2)},
		{Code: "7", Quantity: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	require.Len(t, input.Items, 2)
	require.Equal(t, "1", input.Items[0].DishID)
	require.Equal(t, "Борщ с пампушками", input.Items[0].DishName)
	require.True(t, input.Items[0].UnitPrice.Equal(decimal.RequireFromString("280.50")))
	require.Equal(t, "7", input.Items[1].DishID)

	_, err = ResolveLines(menu, []OrderLineRequest{{Code: "NOPE", Quantity: decimal.NewFromInt(1)}})
	require.ErrorIs(t, err, ErrUnknownDishCode)
}
