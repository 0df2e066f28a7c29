package mediciones

import (
	"log/slog"

	"github.com/jcanovas/mediciones/classify"
	"github.com/jcanovas/mediciones/layout"
	"github.com/jcanovas/mediciones/structure"
)

// ParseOptions holds configuration for budget parsing.
type ParseOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Component configuration
	column     layout.ColumnConfig
	classifier classify.ClassifierConfig
	builder    structure.BuilderConfig

	// Logger for orchestration-level warnings
	logger *slog.Logger
}

// defaultOptions returns the default parse options.
func defaultOptions() ParseOptions {
	return ParseOptions{
		pages:      nil, // nil means all pages
		column:     layout.DefaultColumnConfig(),
		classifier: classify.DefaultClassifierConfig(),
		builder:    structure.DefaultBuilderConfig(),
		logger:     slog.Default(),
	}
}

// clone creates a deep copy of ParseOptions.
func (o ParseOptions) clone() ParseOptions {
	newOpts := ParseOptions{
		column:     o.column,
		classifier: o.classifier,
		builder:    o.builder,
		logger:     o.logger,
	}

	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
