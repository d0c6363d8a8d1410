package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/tanksim/internal/dynamo"
)

func TestTimeGridLength(t *testing.T) {
	tests := []struct {
		name     string
		t0, tf   float64
		step     float64
		expected int
	}{
		{"reference", 0, 3200, 0.1, 32000},
		{"unit", 0, 10, 1, 10},
		{"offset", 5, 25, 0.5, 40},
		{"truncated", 0, 1, 0.3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewTimeGrid(tt.t0, tt.tf, tt.step)
			if err != nil {
				t.Fatalf("grid: %v", err)
			}
			if g.Len() != tt.expected {
				t.Errorf("expected %d samples, got %d", tt.expected, g.Len())
			}
			if g.Start() != tt.t0 {
				t.Errorf("expected first sample %f, got %f", tt.t0, g.Start())
			}
			if math.Abs(g.End()-tt.tf) > 1e-9 {
				t.Errorf("expected last sample %f, got %f", tt.tf, g.End())
			}
		})
	}
}

func TestTimeGridSpacing(t *testing.T) {
	g, err := NewTimeGrid(0, 3200, 0.1)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}

	tol := g.Step()/float64(g.Len()-1) + 1e-9
	times := g.Times()
	for i := 1; i < len(times); i++ {
		d := times[i] - times[i-1]
		if d <= 0 {
			t.Fatalf("times not increasing at %d", i)
		}
		if math.Abs(d-0.1) > tol {
			t.Fatalf("spacing %f at %d differs from step", d, i)
		}
	}
}

func TestTimeGridInvalid(t *testing.T) {
	if _, err := NewTimeGrid(0, 10, 0); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("zero step: expected invalid config, got %v", err)
	}
	if _, err := NewTimeGrid(10, 0, 1); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("reversed bounds: expected invalid config, got %v", err)
	}
	if _, err := NewTimeGrid(0, 1.5, 1); !errors.Is(err, dynamo.ErrRange) {
		t.Errorf("single sample: expected range error, got %v", err)
	}
}

func TestTimeGridIndex(t *testing.T) {
	g, _ := NewTimeGrid(0, 10, 1)

	// 10 points over [0, 10]: spacing 10/9
	if i := g.Index(0); i != 0 {
		t.Errorf("expected 0, got %d", i)
	}
	if i := g.Index(1.2); i != 2 {
		t.Errorf("expected 2, got %d", i)
	}
	if i := g.Index(11); i != g.Len() {
		t.Errorf("expected %d, got %d", g.Len(), i)
	}
}

func TestStepEditSpanRounding(t *testing.T) {
	tests := []struct {
		edit       StepEdit
		start, end int
	}{
		{StepEdit{Start: 2, Duration: 3}, 2, 5},
		{StepEdit{Start: 2.5, Duration: 3}, 2, 5},
		{StepEdit{Start: 3.5, Duration: 3}, 4, 7},
		{StepEdit{Start: 1, Duration: 1.5}, 1, 3},
		{StepEdit{Start: 1, Duration: 2.5}, 1, 3},
	}

	for _, tt := range tests {
		start, end := tt.edit.Span(1)
		if start != tt.start || end != tt.end {
			t.Errorf("edit %+v: expected [%d, %d), got [%d, %d)", tt.edit, tt.start, tt.end, start, end)
		}
	}
}

func TestApplyStep(t *testing.T) {
	g, _ := NewTimeGrid(0, 10, 1)
	base := Constant(g, 1)

	out, err := base.ApplyStep(StepEdit{Value: 5, Start: 2, Duration: 3}, 1)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	expected := []float64{1, 1, 5, 5, 5, 1, 1, 1, 1, 1}
	for i, v := range expected {
		if out.At(i) != v {
			t.Errorf("index %d: expected %f, got %f", i, v, out.At(i))
		}
	}
	if base.At(2) != 1 {
		t.Error("ApplyStep modified the receiver")
	}
}

func TestApplyStepIdempotent(t *testing.T) {
	g, _ := NewTimeGrid(0, 100, 0.1)
	edit := StepEdit{Value: 0.7, Start: 40, Duration: 25}

	once, err := Constant(g, 0.5).ApplyStep(edit, 0.1)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	twice, err := once.ApplyStep(edit, 0.1)
	if err != nil {
		t.Fatalf("apply twice: %v", err)
	}

	for i := 0; i < once.Len(); i++ {
		if once.At(i) != twice.At(i) {
			t.Fatalf("index %d differs: %f vs %f", i, once.At(i), twice.At(i))
		}
	}
}

func TestApplyStepOutOfRange(t *testing.T) {
	g, _ := NewTimeGrid(0, 10, 1)
	base := Constant(g, 1)

	tests := []struct {
		name string
		edit StepEdit
	}{
		{"past end", StepEdit{Value: 2, Start: 8, Duration: 5}},
		{"negative start", StepEdit{Value: 2, Start: -2, Duration: 3}},
		{"negative duration", StepEdit{Value: 2, Start: 5, Duration: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := base.ApplyStep(tt.edit, 1)

			var rerr *dynamo.RangeError
			if !errors.As(err, &rerr) {
				t.Fatalf("expected RangeError, got %v", err)
			}
			if rerr.Len != 10 {
				t.Errorf("expected grid length 10, got %d", rerr.Len)
			}
			for i := 0; i < base.Len(); i++ {
				if base.At(i) != 1 {
					t.Fatalf("signal modified at %d", i)
				}
			}
		})
	}
}

type linearPlant struct{}

func (linearPlant) EquilibriumInput(target float64) (float64, error) {
	if target <= 0 {
		return 0, &dynamo.DomainError{State: dynamo.State{target}}
	}
	return target / 10, nil
}

func TestBuilderSchedule(t *testing.T) {
	g, _ := NewTimeGrid(0, 100, 1)
	b := NewBuilder(g, linearPlant{}, 50)

	in, err := b.Build([]Disturbance{
		{Offset: 10, Start: 10, Duration: 20},
		{Offset: -5, Start: 20, Duration: 5},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	checks := map[int]float64{0: 5, 9: 5, 10: 6, 19: 6, 20: 4.5, 24: 4.5, 25: 6, 29: 6, 30: 5, 99: 5}
	for i, v := range checks {
		if math.Abs(in.At(i)-v) > 1e-12 {
			t.Errorf("index %d: expected %f, got %f", i, v, in.At(i))
		}
	}
}

func TestBuilderFailsFast(t *testing.T) {
	g, _ := NewTimeGrid(0, 100, 1)
	b := NewBuilder(g, linearPlant{}, 50)

	_, err := b.Build([]Disturbance{{Offset: 5, Start: 90, Duration: 20}})
	if !errors.Is(err, dynamo.ErrRange) {
		t.Errorf("expected range error, got %v", err)
	}

	_, err = b.Build([]Disturbance{{Offset: -60, Start: 10, Duration: 10}})
	if !errors.Is(err, dynamo.ErrDomain) {
		t.Errorf("expected domain error, got %v", err)
	}
}
