package chart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestRenderCategoryDonut(t *testing.T) {
	totals := []core.CategoryTotal{
		{Category: core.CategoryFood, Cents: 135000},
		{Category: core.CategoryTransport, Cents: 50000},
		{Category: core.CategoryBills, Cents: 220000},
	}
	png, err := RenderCategoryDonut(totals)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4], "output should be a PNG")
}

func TestRenderCategoryDonutEmpty(t *testing.T) {
	_, err := RenderCategoryDonut(nil)
	require.ErrorIs(t, err, ErrNoData)

	_, err = RenderCategoryDonut([]core.CategoryTotal{{Category: core.CategoryFood, Cents: 0}})
	require.ErrorIs(t, err, ErrNoData)
}
