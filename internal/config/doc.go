// Package config loads and validates rekindle.json, the project
// configuration file.
//
// All fields are optional; Load fills in defaults so callers never see
// zero values where a default exists. The component list feeds the
// definition registry used by both the annotator and the reconciler,
// which must agree on each tag's encapsulation mode.
package config
