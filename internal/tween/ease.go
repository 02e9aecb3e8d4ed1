package tween

import "math"

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(t float64) float64

// Easing curves. Names follow the usual power/sine families:
// PowerN is a polynomial of degree N+1.
var (
	Linear    Ease = func(t float64) float64 { return t }
	Power1Out Ease = func(t float64) float64 { return 1 - (1-t)*(1-t) }
	Power2In  Ease = func(t float64) float64 { return t * t * t }
	Power2Out Ease = func(t float64) float64 { u := 1 - t; return 1 - u*u*u }
	Power3Out Ease = func(t float64) float64 { u := 1 - t; return 1 - u*u*u*u }
	SineInOut Ease = func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }
)

// Yoyo returns the eased position of an endless back-and-forth loop with
// the given half period: 0 at elapsed 0, 1 after one half period, 0 again
// after two.
func Yoyo(elapsed, halfPeriod float64, ease Ease) float64 {
	if halfPeriod <= 0 {
		return 0
	}
	if ease == nil {
		ease = Linear
	}
	cycle := elapsed / halfPeriod
	n := math.Floor(cycle)
	t := cycle - n
	if int64(n)%2 == 1 {
		t = 1 - t
	}
	return ease(t)
}
