package pschema

import (
	"github.com/specialistvlad/pschema/internal/metrics"
)

// Option configures a Validator.
type Option func(*Validator)

// WithWorkers sets the number of partitions evaluated in parallel. Zero or
// less means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(v *Validator) { v.workers = n }
}

// WithMaxSupersteps overrides the computed superstep bound.
func WithMaxSupersteps(n int) Option {
	return func(v *Validator) { v.maxSupersteps = n }
}

// WithMetrics records every run on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(v *Validator) { v.metrics = c }
}
