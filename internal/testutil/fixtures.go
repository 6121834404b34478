package testutil

import "github.com/robert-malhotra/go-binout/internal/dtype"

// Nodout writes a "nodout" category: a metadata directory and three state
// partitions appended out of time order (times 5, 1, 3).
//
//	nodout/metadata       ids [101 102], title "nodal output"
//	nodout/d000001        time [5]  x_displacement [50] y_displacement [500]
//	nodout/d000002        time [1]  x_displacement [10]
//	nodout/d000003        time [3]  x_displacement [30] y_displacement [300]
func Nodout(b *Builder) *Builder {
	return b.Dir("nodout", func(b *Builder) {
		b.Dir("metadata", func(b *Builder) {
			b.Value("ids", dtype.MustOf([]int32{101, 102}))
			b.Value("title", dtype.OfString("nodal output"))
		})
		b.Dir("d000001", func(b *Builder) {
			b.Value("time", dtype.MustOf([]float64{5}))
			b.Value("x_displacement", dtype.MustOf([]float64{50}))
			b.Value("y_displacement", dtype.MustOf([]float64{500}))
		})
		b.Dir("d000002", func(b *Builder) {
			b.Value("time", dtype.MustOf([]float64{1}))
			b.Value("x_displacement", dtype.MustOf([]float64{10}))
		})
		b.Dir("d000003", func(b *Builder) {
			b.Value("time", dtype.MustOf([]float64{3}))
			b.Value("x_displacement", dtype.MustOf([]float64{30}))
			b.Value("y_displacement", dtype.MustOf([]float64{300}))
		})
	})
}

// Glstat writes a "glstat" category whose leaves are stored out of line
// through DefineVariable records.
//
//	glstat/d000001        time [0.5]  kinetic_energy [1.5]
//	glstat/d000002        time [0.25] kinetic_energy [0.75]
func Glstat(b *Builder) *Builder {
	return b.Dir("glstat", func(b *Builder) {
		b.Dir("d000001", func(b *Builder) {
			b.Define("time", dtype.MustOf([]float32{0.5}))
			b.Define("kinetic_energy", dtype.MustOf([]float32{1.5}))
		})
		b.Dir("d000002", func(b *Builder) {
			b.Define("time", dtype.MustOf([]float32{0.25}))
			b.Define("kinetic_energy", dtype.MustOf([]float32{0.75}))
		})
	})
}

// Sample writes a root-level metadata directory followed by Nodout and
// Glstat.
func Sample(b *Builder) *Builder {
	b.Dir("metadata", func(b *Builder) {
		b.Value("version", dtype.OfString("R13.1"))
	})
	Nodout(b)
	return Glstat(b)
}
