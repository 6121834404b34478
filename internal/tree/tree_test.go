package tree

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/header"
	"github.com/robert-malhotra/go-binout/internal/record"
	"github.com/robert-malhotra/go-binout/internal/testutil"
)

func build(t *testing.T, b *testutil.Builder, opts ...record.Option) (*Directory, error) {
	t.Helper()
	data := b.Bytes()
	l, err := header.Read(bytes.NewReader(data))
	require.NoError(t, err)
	return Build(record.NewWalker(bytes.NewReader(data), l, int64(len(data)), opts...))
}

// paths lists every node below root with a trailing slash on directories.
func paths(t *testing.T, root *Directory) []string {
	t.Helper()
	var out []string
	require.NoError(t, Walk(root, func(p string, n Node) error {
		if _, ok := n.(*Directory); ok && p != "/" {
			p += "/"
		}
		out = append(out, p)
		return nil
	}))
	return out
}

func TestBuildSample(t *testing.T) {
	root, err := build(t, testutil.Sample(testutil.Default()))
	require.NoError(t, err)

	assert.Equal(t, []string{"metadata", "nodout", "glstat"}, root.Names())

	want := []string{
		"/",
		"/metadata/",
		"/metadata/version",
		"/nodout/",
		"/nodout/metadata/",
		"/nodout/metadata/ids",
		"/nodout/metadata/title",
		"/nodout/d000001/",
		"/nodout/d000001/time",
		"/nodout/d000001/x_displacement",
		"/nodout/d000001/y_displacement",
		"/nodout/d000002/",
		"/nodout/d000002/time",
		"/nodout/d000002/x_displacement",
		"/nodout/d000003/",
		"/nodout/d000003/time",
		"/nodout/d000003/x_displacement",
		"/nodout/d000003/y_displacement",
		"/glstat/",
		"/glstat/d000001/",
		"/glstat/d000001/time",
		"/glstat/d000001/kinetic_energy",
		"/glstat/d000002/",
		"/glstat/d000002/time",
		"/glstat/d000002/kinetic_energy",
	}
	if diff := cmp.Diff(want, paths(t, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	dirs, leaves := root.Count()
	assert.Equal(t, 9, dirs)
	assert.Equal(t, 15, leaves)

	nodout, ok := root.Dir("nodout")
	require.True(t, ok)
	part, ok := nodout.Dir("d000002")
	require.True(t, ok)
	x, ok := part.Leaf("x_displacement")
	require.True(t, ok)
	assert.Equal(t, dtype.Float64, x.Tag())
	assert.Equal(t, uint64(1), x.Count())
	assert.True(t, x.Loaded())

	v, err := x.Values()
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, v.Raw())

	_, ok = nodout.Leaf("d000002")
	assert.False(t, ok, "directory returned as leaf")
	_, ok = part.Dir("time")
	assert.False(t, ok, "leaf returned as directory")
	_, ok = root.Child("missing")
	assert.False(t, ok)
}

func TestBuildReentersDirectory(t *testing.T) {
	b := testutil.Default().
		Dir("nodout", func(b *testutil.Builder) {
			b.Dir("d000001", func(b *testutil.Builder) {
				b.Value("time", dtype.MustOf([]float64{1}))
			})
		}).
		Dir("nodout", func(b *testutil.Builder) {
			b.Dir("d000002", func(b *testutil.Builder) {
				b.Value("time", dtype.MustOf([]float64{2}))
			})
		})

	root, err := build(t, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"nodout"}, root.Names())

	nodout, _ := root.Dir("nodout")
	assert.Equal(t, []string{"d000001", "d000002"}, nodout.Names())
}

func TestBuildStructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *testutil.Builder)
		want  error
	}{
		{
			name:  "unclosed directory",
			build: func(b *testutil.Builder) { b.Begin("nodout").Begin("d000001").End() },
			want:  ErrUnbalanced,
		},
		{
			name:  "end at root",
			build: func(b *testutil.Builder) { b.Dir("a", nil).End() },
			want:  ErrUnbalanced,
		},
		{
			name: "duplicate leaf",
			build: func(b *testutil.Builder) {
				b.Dir("a", func(b *testutil.Builder) {
					b.Value("time", dtype.MustOf([]float64{1}))
					b.Value("time", dtype.MustOf([]float64{2}))
				})
			},
			want: ErrDuplicateLeaf,
		},
		{
			name: "leaf over directory",
			build: func(b *testutil.Builder) {
				b.Dir("a", func(b *testutil.Builder) {
					b.Dir("x", nil)
					b.Value("x", dtype.MustOf([]int8{1}))
				})
			},
			want: ErrNameConflict,
		},
		{
			name: "directory over leaf",
			build: func(b *testutil.Builder) {
				b.Value("x", dtype.MustOf([]int8{1}))
				b.Dir("x", nil)
			},
			want: ErrNameConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.Default()
			tt.build(b)
			root, err := build(t, b)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, root, "partial tree exposed")
		})
	}
}

func TestBuildDuplicateLeafOffset(t *testing.T) {
	b := testutil.Default().Begin("a").Value("v", dtype.MustOf([]int8{1}))
	at := b.Offset()
	b.Value("v", dtype.MustOf([]int8{2})).End()

	_, err := build(t, b)
	var recErr *record.Error
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, at, recErr.Offset)
}

func TestBuildLazy(t *testing.T) {
	root, err := build(t, testutil.Sample(testutil.Default()), record.WithLazy(true))
	require.NoError(t, err)

	glstat, _ := root.Dir("glstat")
	part, _ := glstat.Dir("d000002")
	energy, ok := part.Leaf("kinetic_energy")
	require.True(t, ok)
	assert.False(t, energy.Loaded())
	assert.Equal(t, uint64(1), energy.Count())

	var wg sync.WaitGroup
	results := make([]dtype.Values, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := energy.Values()
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.True(t, energy.Loaded())
	for _, v := range results {
		assert.Equal(t, []float32{0.75}, v.Raw())
	}
}

type countingLoader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingLoader) Load(span record.Span, tag dtype.Tag) (dtype.Values, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.err != nil {
		return dtype.Values{}, c.err
	}
	return dtype.MustOf([]int64{span.Offset}), nil
}

func TestLazyLeafDecodesOnce(t *testing.T) {
	loader := &countingLoader{}
	leaf := NewLazyLeaf("x", dtype.Int64, 1, record.Span{Offset: 42, Length: 8}, loader)

	for range 5 {
		v, err := leaf.Values()
		require.NoError(t, err)
		assert.Equal(t, []int64{42}, v.Raw())
	}
	assert.Equal(t, 1, loader.calls)
}

func TestLazyLeafError(t *testing.T) {
	boom := errors.New("boom")
	loader := &countingLoader{err: boom}
	leaf := NewLazyLeaf("x", dtype.Int64, 1, record.Span{}, loader)

	_, err := leaf.Values()
	require.ErrorIs(t, err, boom)
	_, err = leaf.Values()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, loader.calls)
}

func TestMerge(t *testing.T) {
	a, err := build(t, testutil.Nodout(testutil.Default()))
	require.NoError(t, err)

	b, err := build(t, testutil.Default().Dir("nodout", func(b *testutil.Builder) {
		b.Dir("d000004", func(b *testutil.Builder) {
			b.Value("time", dtype.MustOf([]float64{0}))
		})
	}).Dir("glstat", nil))
	require.NoError(t, err)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, []string{"nodout", "glstat"}, a.Names())

	nodout, _ := a.Dir("nodout")
	assert.Equal(t, []string{"metadata", "d000001", "d000002", "d000003", "d000004"}, nodout.Names())

	dup, err := build(t, testutil.Default().Dir("nodout", func(b *testutil.Builder) {
		b.Dir("d000001", func(b *testutil.Builder) {
			b.Value("time", dtype.MustOf([]float64{9}))
		})
	}))
	require.NoError(t, err)
	assert.ErrorIs(t, a.Merge(dup), ErrDuplicateLeaf)
}

func TestWalkSkipDir(t *testing.T) {
	root, err := build(t, testutil.Sample(testutil.Default()))
	require.NoError(t, err)

	var got []string
	err = Walk(root, func(p string, n Node) error {
		got = append(got, p)
		if p == "/nodout" {
			return SkipDir
		}
		return nil
	})
	require.NoError(t, err)
	assert.NotContains(t, got, "/nodout/d000001")
	assert.Contains(t, got, "/glstat/d000001/time")
}

func TestWalkStop(t *testing.T) {
	root, err := build(t, testutil.Sample(testutil.Default()))
	require.NoError(t, err)

	stop := errors.New("stop")
	n := 0
	err = Walk(root, func(string, Node) error {
		n++
		if n == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, n)
}
