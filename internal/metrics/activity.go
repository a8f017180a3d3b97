package metrics

import (
	"math"

	"github.com/san-kum/kinsim/internal/dynamo"
)

// Activity is the largest per-species rate of change between the last two
// observed states. Values near zero mean the network has settled.
type Activity struct {
	name  string
	prev  dynamo.State
	prevT float64
	rate  float64
}

func NewActivity() *Activity {
	return &Activity{
		name: "activity",
	}
}

func (a *Activity) Name() string {
	return a.name
}

func (a *Activity) Observe(x dynamo.State, t float64) {
	if a.prev != nil && t > a.prevT && len(x) == len(a.prev) {
		dt := t - a.prevT
		rate := 0.0
		for i := range x {
			rate = math.Max(rate, math.Abs(x[i]-a.prev[i])/dt)
		}
		a.rate = rate
	}
	a.prev = x.Clone()
	a.prevT = t
}

func (a *Activity) Value() float64 {
	return a.rate
}

func (a *Activity) Reset() {
	a.prev = nil
	a.prevT = 0
	a.rate = 0
}
