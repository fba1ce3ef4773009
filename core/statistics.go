package core

import "math"

// SummaryStatistics accumulates min/max/mean/variance over a stream of values
// with Welford's update, stable for the tens of thousands of facet centers a
// detailed mesh produces. The zero value is an empty accumulator.
type SummaryStatistics struct {
	n     int
	min   float64
	max   float64
	mean  float64
	m2    float64
	sumsq float64
}

// Add folds one value into the accumulator.
func (s *SummaryStatistics) Add(x float64) {
	s.n++
	if s.n == 1 {
		s.min = x
		s.max = x
	} else {
		if x < s.min {
			s.min = x
		}
		if x > s.max {
			s.max = x
		}
	}
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
	s.sumsq += x * x
}

// N returns the number of accumulated values.
func (s *SummaryStatistics) N() int { return s.n }

// Min returns the smallest accumulated value, NaN when empty.
func (s *SummaryStatistics) Min() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.min
}

// Max returns the largest accumulated value, NaN when empty.
func (s *SummaryStatistics) Max() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.max
}

// Mean returns the arithmetic mean, NaN when empty.
func (s *SummaryStatistics) Mean() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.mean
}

// Variance returns the unbiased sample variance, NaN below two values.
func (s *SummaryStatistics) Variance() float64 {
	if s.n < 2 {
		return math.NaN()
	}
	return s.m2 / float64(s.n-1)
}

// StandardDeviation returns the square root of the sample variance.
func (s *SummaryStatistics) StandardDeviation() float64 {
	return math.Sqrt(s.Variance())
}

// SumSquares returns the raw sum of squared values.
func (s *SummaryStatistics) SumSquares() float64 { return s.sumsq }
