// Package config provides configuration structures and utilities for docscan.
// It defines the main configuration options for scanning documentation
// trees, snippet language allow-lists, and report generation preferences.
package config
