package resample

import "math"

// rateRatio returns up/down = to/from in lowest terms. When either term
// exceeds maxDen the ratio is approximated by continued fractions instead.
func rateRatio(from, to, maxDen int) (up, down int) {
	if maxDen <= 0 {
		maxDen = defaultMaxDenominator
	}

	g := gcd(from, to)
	up, down = to/g, from/g

	if up <= maxDen && down <= maxDen {
		return up, down
	}

	return approximateRatio(float64(to)/float64(from), maxDen)
}

// approximateRatio returns the last continued-fraction convergent of v whose
// denominator does not exceed maxDen.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if maxDen <= 0 {
		maxDen = defaultMaxDenominator
	}

	if !(v > 0) || math.IsInf(v, 0) {
		return 1, 1
	}

	hPrev, kPrev := 1, 0
	h, k := int(math.Floor(v)), 1
	x := v

	for {
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}

		x = 1 / frac
		a := int(math.Floor(x))

		if a*k+kPrev > maxDen {
			break
		}

		h, hPrev = a*h+hPrev, h
		k, kPrev = a*k+kPrev, k
	}

	if h <= 0 {
		return 1, 1
	}

	g := gcd(h, k)

	return h / g, k / g
}

func gcd(a, b int) int {
	a, b = max(a, -a), max(b, -b)

	for b != 0 {
		a, b = b, a%b
	}

	return max(a, 1)
}

// sinc is the normalized sinc, sin(πx)/(πx).
func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// kaiser is an n-point Kaiser window with I0(beta) precomputed.
type kaiser struct {
	n    int
	beta float64
	norm float64
}

func newKaiser(n int, beta float64) kaiser {
	return kaiser{n: n, beta: beta, norm: besselI0(beta)}
}

func (w kaiser) at(i int) float64 {
	if w.n <= 1 || w.beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(w.n-1) - 1

	return besselI0(w.beta*math.Sqrt(max(0, 1-t*t))) / w.norm
}

// besselI0 sums the power series of the zeroth-order modified Bessel
// function of the first kind.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4

	for k := 1; k < 64 && term >= 1e-16*sum; k++ {
		term *= q / float64(k*k)
		sum += term
	}

	return sum
}
