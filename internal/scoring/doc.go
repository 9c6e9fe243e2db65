// Package scoring reconciles extracted candidates against a benchmark and
// ranks models by a weighted composite score.
//
// The score is not a probability. It rewards correct names, raw recall, and
// over-generation, so a verbose model that is mostly right ranks above a
// terse one that finds little.
package scoring
