package charts

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kamau552/wk-2-Assignment-africa-co2-predictor/src/logging"
)

// Slot names one of the two chart surfaces.
type Slot int

const (
	SlotTrend Slot = iota
	SlotComparison
)

func (s Slot) String() string {
	switch s {
	case SlotTrend:
		return "trend"
	case SlotComparison:
		return "comparison"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Surface is a drawn chart. Close releases it; a closed surface must not be used.
type Surface interface {
	Slot() Slot
	Close() error
}

// Factory creates chart surfaces for one backend.
type Factory interface {
	Trend(TrendSpec) (Surface, error)
	Comparison(ComparisonSpec) (Surface, error)
}

// Coordinator exclusively owns the trend and comparison surfaces. Every render
// disposes the current surfaces before creating new ones; nothing is mutated in place.
type Coordinator struct {
	mu         sync.Mutex
	factory    Factory
	trend      Surface
	comparison Surface
	generation int
}

// NewCoordinator returns a coordinator with empty slots.
func NewCoordinator(f Factory) *Coordinator {
	return &Coordinator{factory: f}
}

// Render rebuilds both surfaces.
func (c *Coordinator) Render(trend TrendSpec, cmp ComparisonSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	disposeErr := errors.Join(c.dispose(&c.trend), c.dispose(&c.comparison))
	c.generation++

	ts, err := c.factory.Trend(trend)
	if err != nil {
		return errors.Join(disposeErr, fmt.Errorf("build trend chart: %w", err))
	}
	cs, err := c.factory.Comparison(cmp)
	if err != nil {
		_ = ts.Close()
		return errors.Join(disposeErr, fmt.Errorf("build comparison chart: %w", err))
	}
	c.trend, c.comparison = ts, cs
	logging.Debugf("[charts] generation %d rendered", c.generation)
	return disposeErr
}

// RenderComparison rebuilds only the comparison surface.
func (c *Coordinator) RenderComparison(cmp ComparisonSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	disposeErr := c.dispose(&c.comparison)
	c.generation++
	cs, err := c.factory.Comparison(cmp)
	if err != nil {
		return errors.Join(disposeErr, fmt.Errorf("build comparison chart: %w", err))
	}
	c.comparison = cs
	return disposeErr
}

// Surface returns the current surface for slot, or nil when the slot is empty.
func (c *Coordinator) Surface(slot Slot) Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch slot {
	case SlotTrend:
		return c.trend
	case SlotComparison:
		return c.comparison
	}
	return nil
}

// Generation counts rebuilds since creation.
func (c *Coordinator) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Close disposes both surfaces.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.dispose(&c.trend), c.dispose(&c.comparison))
}

func (c *Coordinator) dispose(s *Surface) error {
	if *s == nil {
		return nil
	}
	slot := (*s).Slot()
	err := (*s).Close()
	*s = nil
	if err != nil {
		return fmt.Errorf("dispose %s chart: %w", slot, err)
	}
	return nil
}
