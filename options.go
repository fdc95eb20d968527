package reflow

import (
	"github.com/tsawler/reflow/hittest"
	"github.com/tsawler/reflow/layout"
)

// config holds the resolved configuration for an Analyzer.
type config struct {
	line      layout.LineGroupingConfig
	paragraph layout.ParagraphDetectionConfig
	space     layout.SpaceMapperConfig
	tolerance float64
}

// defaultConfig returns the default analyzer configuration.
func defaultConfig() config {
	return config{
		line:      layout.DefaultLineGroupingConfig(),
		paragraph: layout.DefaultParagraphDetectionConfig(),
		space:     layout.DefaultSpaceMapperConfig(),
		tolerance: hittest.DefaultTolerance,
	}
}

// Option configures an Analyzer.
type Option func(*config)

// WithLineConfig sets the line grouping configuration.
func WithLineConfig(cfg layout.LineGroupingConfig) Option {
	return func(c *config) {
		c.line = cfg
	}
}

// WithParagraphConfig sets the paragraph detection configuration.
func WithParagraphConfig(cfg layout.ParagraphDetectionConfig) Option {
	return func(c *config) {
		c.paragraph = cfg
	}
}

// WithSpaceConfig sets the space analysis configuration.
func WithSpaceConfig(cfg layout.SpaceMapperConfig) Option {
	return func(c *config) {
		c.space = cfg
	}
}

// WithHitTolerance sets the default tolerance in points for point queries.
// Non-positive values keep the package default.
func WithHitTolerance(tolerance float64) Option {
	return func(c *config) {
		if tolerance > 0 {
			c.tolerance = tolerance
		}
	}
}
