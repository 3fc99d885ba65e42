package scoreline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestReconcileScalesToExternalTotal(t *testing.T) {
	in := ExpectedRates{Home: 1.5, Away: 1.0}
	out := Reconcile(in, ptr(3.0))

	assert.InDelta(t, 3.0, out.Total(), 1e-12)
	assert.InDelta(t, 1.8, out.Home, 1e-12)
	assert.InDelta(t, 1.2, out.Away, 1e-12)
	assert.InDelta(t, in.Home/in.Away, out.Home/out.Away, 1e-12)
}

func TestReconcileEvenRatesToFourGoals(t *testing.T) {
	out := Reconcile(ExpectedRates{Home: 1.0, Away: 1.0}, ptr(4.0))

	assert.InDelta(t, 4.0, out.Total(), 1e-12)
	assert.InDelta(t, 2.0, out.Home, 1e-12)
	assert.InDelta(t, 2.0, out.Away, 1e-12)
}

func TestReconcileLeavesRatesAlone(t *testing.T) {
	in := ExpectedRates{Home: 1.5, Away: 1.0}
	assert.Equal(t, in, Reconcile(in, nil))
	assert.Equal(t, in, Reconcile(in, ptr(0)))
	assert.Equal(t, in, Reconcile(in, ptr(-2)))
	assert.Equal(t, in, Reconcile(in, ptr(math.NaN())))
	assert.Equal(t, in, Reconcile(in, ptr(math.Inf(1))))

	zero := ExpectedRates{}
	assert.Equal(t, zero, Reconcile(zero, ptr(2.5)))
}

func TestReconcileDoesNotReapplyFloor(t *testing.T) {
	out := Reconcile(ExpectedRates{Home: 0.05, Away: 2.0}, ptr(0.41))
	assert.Less(t, out.Home, DefaultRateFloor)
}
