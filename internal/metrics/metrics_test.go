package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckout(reg)

	m.ObserveOutcome("success")
	m.ObserveOutcome("success")
	m.ObserveOutcome("failure")
	m.ObservePayment(150 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("failure")))

	n, err := testutil.GatherAndCount(reg, "marketplace_checkout_payment_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewCheckout_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCheckout(reg)
	assert.Panics(t, func() { NewCheckout(reg) })
}
