package transaction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	positive := []Type{TypeRevenue, TypeTransferIn, TypeCapitalInjection}
	for _, typ := range positive {
		sign, err := Sign(typ)
		require.NoError(t, err)
		require.Equal(t, 1, sign, "type %s", typ)
	}

	negative := []Type{TypeExpense, TypeTransferOut, TypePartnerPayout, TypeTax, TypeOther}
	for _, typ := range negative {
		sign, err := Sign(typ)
		require.NoError(t, err)
		require.Equal(t, -1, sign, "type %s", typ)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		typ     Type
		revenue bool
		expense bool
	}{
		{TypeRevenue, true, false},
		{TypeCapitalInjection, true, false},
		{TypeTransferIn, true, false},
		{TypeExpense, false, true},
		{TypeTax, false, true},
		{TypePartnerPayout, false, true},
		{TypeTransferOut, false, true},
		{TypeOther, false, false},
	}
	for _, tc := range cases {
		c, err := Classify(tc.typ)
		require.NoError(t, err)
		require.Equal(t, tc.revenue, c.AddsToRevenue, "type %s", tc.typ)
		require.Equal(t, tc.expense, c.AddsToExpense, "type %s", tc.typ)
	}

	in, err := Classify(TypeTransferIn)
	require.NoError(t, err)
	require.True(t, in.TransferIn)

	out, err := Classify(TypeTransferOut)
	require.NoError(t, err)
	require.True(t, out.TransferOut)
}

func TestClassifyUnknownTypeFailsLoudly(t *testing.T) {
	_, err := Classify(Type("refund"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownType))

	_, err = Sign(Type(""))
	require.Error(t, err)
}
