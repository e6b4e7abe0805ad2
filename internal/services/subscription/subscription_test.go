package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/estate-marketplace/internal/plans"
	"github.com/magabrotheeeer/estate-marketplace/internal/services/checkout"
)

func TestNewView(t *testing.T) {
	v, err := NewView("")
	require.NoError(t, err)
	assert.Equal(t, plans.Monthly, v.Selected().Cycle)
	assert.Equal(t, StepSelect, v.Step())

	_, err = NewView("weekly")
	assert.ErrorIs(t, err, plans.ErrUnknownCycle)
}

func TestView_Select(t *testing.T) {
	v, err := NewView(plans.Monthly)
	require.NoError(t, err)

	require.NoError(t, v.Select(plans.Annually))
	assert.Equal(t, plans.Annually, v.Selected().Cycle)

	err = v.Select("biweekly")
	assert.ErrorIs(t, err, plans.ErrUnknownCycle)
	assert.Equal(t, plans.Annually, v.Selected().Cycle, "failed select keeps previous choice")
}

func TestView_Options_ExactlyOneSelected(t *testing.T) {
	v, err := NewView(plans.Quarterly)
	require.NoError(t, err)

	opts := v.Options()
	require.Len(t, opts, 3)

	selected := 0
	for _, o := range opts {
		if o.Selected {
			selected++
			assert.Equal(t, plans.Quarterly, o.Cycle)
			assert.Equal(t, 2697, o.Total)
			assert.Equal(t, 10, o.DiscountPercent)
		}
	}
	assert.Equal(t, 1, selected)
	assert.Equal(t, 0, opts[0].DiscountPercent)
	assert.Equal(t, 8988, opts[2].Total)
	assert.Equal(t, 25, opts[2].DiscountPercent)
}

func TestView_SubscribeAndCancel(t *testing.T) {
	v, err := NewView(plans.Annually)
	require.NoError(t, err)

	p := v.Subscribe()
	assert.Equal(t, checkout.Params{Amount: 8988, Duration: 12, PlanType: "annually"}, p)
	assert.Equal(t, StepPayment, v.Step())

	v.Cancel()
	assert.Equal(t, StepSelect, v.Step())
	assert.Equal(t, plans.Annually, v.Selected().Cycle)
}
