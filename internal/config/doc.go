// Package config provides application configuration loaded from environment
// variables (HIMAL_ prefix) merged with an optional YAML file, plus the
// centralized path resolution used by every binary.
//
// The dataset section is the interesting part: it declares the five table
// files of the Himalayan expedition archive and an explicit schema mapping
// from semantic roles (expedition year, member nationality, peak name, ...)
// to concrete column names. The mapping is resolved once at load time so the
// analytics pipeline never guesses columns by substring.
package config
