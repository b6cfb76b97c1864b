// Package statistics aggregates the outcome of simulated whist games.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// MaxPositions is the largest table the statistics track
const MaxPositions = 6

// SeatResult is one seat's outcome of a finished game
type SeatResult struct {
	Position  int    // Table position (0-5)
	Strategy  string // Bot strategy that played the seat
	Points    int    // Final cumulative points
	Rounds    int    // Rounds scored
	ExactBids int    // Rounds in which the seat took exactly its bid
	Bonuses   int    // Positive reward markers earned
	Penalties int    // Negative reward markers earned
	Won       bool   // Finished with the most points (ties count for all)
}

// GameResult represents the outcome of a single game
type GameResult struct {
	Seed     int64 // RNG seed for this game (for replay)
	Rounds   int   // Rounds scored
	Repeated int   // Rounds dealt again under the repeat rule
	Seats    []SeatResult
}

// PositionStats tracks points for a specific table position
type PositionStats struct {
	Games      int
	SumPoints  float64
	SumPoints2 float64
}

// Mean returns the mean final points at the position
func (p PositionStats) Mean() float64 {
	if p.Games == 0 {
		return 0
	}
	return p.SumPoints / float64(p.Games)
}

// Statistics tracks the final points of every seat played by one strategy
type Statistics struct {
	Seats      int
	SumPoints  float64
	SumPoints2 float64   // Sum of squares for variance calculation
	Values     []float64 // All values for median/percentile calculation

	Wins      int
	Rounds    int
	ExactBids int
	Bonuses   int
	Penalties int
	MaxPoints int
	MinPoints int
}

// Add incorporates one seat result
func (s *Statistics) Add(r SeatResult) {
	points := float64(r.Points)
	if s.Seats == 0 || r.Points > s.MaxPoints {
		s.MaxPoints = r.Points
	}
	if s.Seats == 0 || r.Points < s.MinPoints {
		s.MinPoints = r.Points
	}
	s.Seats++
	s.SumPoints += points
	s.SumPoints2 += points * points
	s.Values = append(s.Values, points)

	if r.Won {
		s.Wins++
	}
	s.Rounds += r.Rounds
	s.ExactBids += r.ExactBids
	s.Bonuses += r.Bonuses
	s.Penalties += r.Penalties
}

// Mean returns the mean final points per seat
func (s *Statistics) Mean() float64 {
	if s.Seats == 0 {
		return 0
	}
	return s.SumPoints / float64(s.Seats)
}

// Variance returns the sample variance of final points
func (s *Statistics) Variance() float64 {
	if s.Seats < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumPoints2 - float64(s.Seats)*mean*mean) / float64(s.Seats-1)
}

// StdDev returns the sample standard deviation of final points
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Seats == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Seats))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// ExactRate returns the share of rounds bid exactly
func (s *Statistics) ExactRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.ExactBids) / float64(s.Rounds)
}

// WinRate returns the share of seats that finished first
func (s *Statistics) WinRate() float64 {
	if s.Seats == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Seats)
}

// Median returns the median final points
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Report aggregates whole games
type Report struct {
	Games      int
	Rounds     int
	Repeated   int
	ByStrategy map[string]*Statistics
	ByPosition [MaxPositions]PositionStats
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{ByStrategy: make(map[string]*Statistics)}
}

// Add incorporates a finished game
func (r *Report) Add(g GameResult) {
	r.Games++
	r.Rounds += g.Rounds
	r.Repeated += g.Repeated
	for _, seat := range g.Seats {
		s, ok := r.ByStrategy[seat.Strategy]
		if !ok {
			s = &Statistics{}
			r.ByStrategy[seat.Strategy] = s
		}
		s.Add(seat)

		if seat.Position >= 0 && seat.Position < MaxPositions {
			ps := &r.ByPosition[seat.Position]
			ps.Games++
			ps.SumPoints += float64(seat.Points)
			ps.SumPoints2 += float64(seat.Points) * float64(seat.Points)
		}
	}
}

// Merge folds other into r
func (r *Report) Merge(other *Report) {
	r.Games += other.Games
	r.Rounds += other.Rounds
	r.Repeated += other.Repeated
	for name, o := range other.ByStrategy {
		s, ok := r.ByStrategy[name]
		if !ok {
			s = &Statistics{}
			r.ByStrategy[name] = s
		}
		if o.Seats > 0 {
			if s.Seats == 0 || o.MaxPoints > s.MaxPoints {
				s.MaxPoints = o.MaxPoints
			}
			if s.Seats == 0 || o.MinPoints < s.MinPoints {
				s.MinPoints = o.MinPoints
			}
		}
		s.Seats += o.Seats
		s.SumPoints += o.SumPoints
		s.SumPoints2 += o.SumPoints2
		s.Values = append(s.Values, o.Values...)
		s.Wins += o.Wins
		s.Rounds += o.Rounds
		s.ExactBids += o.ExactBids
		s.Bonuses += o.Bonuses
		s.Penalties += o.Penalties
	}
	for i := range r.ByPosition {
		r.ByPosition[i].Games += other.ByPosition[i].Games
		r.ByPosition[i].SumPoints += other.ByPosition[i].SumPoints
		r.ByPosition[i].SumPoints2 += other.ByPosition[i].SumPoints2
	}
}

// Strategies returns the strategy names in sorted order
func (r *Report) Strategies() []string {
	names := make([]string, 0, len(r.ByStrategy))
	for name := range r.ByStrategy {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the aggregates are consistent
func (r *Report) Validate() error {
	if r.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", r.Games)
	}

	seats := 0
	for name, s := range r.ByStrategy {
		if len(s.Values) != s.Seats {
			return fmt.Errorf("strategy %s: values length (%d) does not match seats (%d)", name, len(s.Values), s.Seats)
		}
		if s.ExactBids > s.Rounds {
			return fmt.Errorf("strategy %s: exact bids (%d) exceed rounds (%d)", name, s.ExactBids, s.Rounds)
		}
		seats += s.Seats
	}

	positions := 0
	for _, ps := range r.ByPosition {
		positions += ps.Games
	}
	if positions != seats {
		return fmt.Errorf("position seats total (%d) does not match strategy seats (%d)", positions, seats)
	}
	return nil
}
