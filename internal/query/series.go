package query

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/tree"
)

// Series is the full history of one variable.
type Series struct {
	Category string
	Variable string

	// Values in ascending time order, or as stored for metadata.
	Values dtype.Values

	// Time holds one time per element of Values. It is nil for metadata.
	Time []float64

	// Metadata is set when the variable was read from the category's
	// metadata directory.
	Metadata bool

	// Partitions is the number of partitions that contributed values.
	Partitions int
}

// Len returns the number of elements.
func (s *Series) Len() int {
	return s.Values.Len()
}

// partition is one contributing partition of a series.
type partition struct {
	name  string
	value *tree.Leaf
	time  *tree.Leaf
}

// loaded is the decoded content of a partition.
type loaded struct {
	values dtype.Values
	time   []float64
}

// Series reads variable from category. A metadata leaf is returned as is;
// otherwise values from every partition holding variable are concatenated
// and stably sorted by time.
func (e *Engine) Series(category, variable string) (*Series, error) {
	dir, err := e.category(category)
	if err != nil {
		return nil, err
	}

	if md, ok := dir.Dir(e.metadata); ok {
		if leaf, ok := md.Leaf(variable); ok {
			v, err := leaf.Values()
			if err != nil {
				return nil, fmt.Errorf("%s/%s/%s: %w", category, e.metadata, variable, err)
			}
			return &Series{Category: category, Variable: variable, Values: v, Metadata: true}, nil
		}
	}

	var parts []partition
	for name, d := range e.Partitions(dir) {
		v, ok := d.Leaf(variable)
		if !ok {
			continue
		}
		t, ok := d.Leaf(e.time)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s has %q but no %q", ErrMissingTime, category, name, variable, e.time)
		}
		if !t.Tag().Numeric() {
			return nil, fmt.Errorf("%s/%s/%s: %w: %s", category, name, e.time, dtype.ErrNotNumeric, t.Tag())
		}
		parts = append(parts, partition{name: name, value: v, time: t})
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownVariable, category, variable)
	}

	data, err := e.load(category, parts)
	if err != nil {
		return nil, err
	}

	s, err := merge(category, variable, parts, data)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("merged series",
		"category", category,
		"variable", variable,
		"partitions", len(parts),
		"elements", s.Len())
	return s, nil
}

// load decodes the value and time leaves of every partition. Leaves that
// are not yet decoded are read concurrently when the engine allows it.
func (e *Engine) load(category string, parts []partition) ([]loaded, error) {
	out := make([]loaded, len(parts))
	read := func(i int) error {
		p := parts[i]
		v, err := p.value.Values()
		if err != nil {
			return fmt.Errorf("%s/%s: %w", category, p.name, err)
		}
		tv, err := p.time.Values()
		if err != nil {
			return fmt.Errorf("%s/%s: %w", category, p.name, err)
		}
		t, err := tv.Float64s()
		if err != nil {
			return fmt.Errorf("%s/%s/%s: %w", category, p.name, p.time.Name(), err)
		}
		out[i] = loaded{values: v, time: t}
		return nil
	}

	if e.concurrency <= 1 || !pending(parts) {
		for i := range parts {
			if err := read(i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i := range parts {
		g.Go(func() error {
			return read(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func pending(parts []partition) bool {
	for _, p := range parts {
		if !p.value.Loaded() || !p.time.Loaded() {
			return true
		}
	}
	return false
}

// merge concatenates partitions in stream order and stably sorts the
// result by time. A partition with a single time value applies it to all
// of its elements; otherwise time and values pair element by element.
func merge(category, variable string, parts []partition, data []loaded) (*Series, error) {
	total := 0
	for _, d := range data {
		total += d.values.Len()
	}

	times := make([]float64, 0, total)
	chunks := make([]dtype.Values, len(data))
	for i, d := range data {
		n := d.values.Len()
		switch {
		case len(d.time) == n:
			times = append(times, d.time...)
		case len(d.time) == 1:
			for range n {
				times = append(times, d.time[0])
			}
		default:
			return nil, fmt.Errorf("%w: %s/%s has %d values of %q and %d times",
				ErrLengthMismatch, category, parts[i].name, n, variable, len(d.time))
		}

		if first := chunks[0]; i > 0 && d.values.Tag() != first.Tag() {
			return nil, fmt.Errorf("%s/%s/%s: %w: %s and %s", category, parts[i].name, variable,
				ErrTypeMismatch, first.Tag(), d.values.Tag())
		}
		chunks[i] = d.values
	}

	values, err := dtype.Concat(chunks...)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", category, variable, err)
	}

	idx := make([]int, len(times))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(times[a], times[b])
	})

	sorted := make([]float64, len(idx))
	for i, j := range idx {
		sorted[i] = times[j]
	}

	return &Series{
		Category:   category,
		Variable:   variable,
		Values:     values.Permute(idx),
		Time:       sorted,
		Partitions: len(parts),
	}, nil
}
