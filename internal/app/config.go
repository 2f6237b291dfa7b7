package app

import "time"

// Config holds runtime configuration for a single run.
type Config struct {
	// URL is the page or paper to download.
	URL string

	// OutputPath, when set, is the exact file to write. Otherwise the
	// filename is derived from the document title and placed in OutputDir.
	OutputPath string
	OutputDir  string

	// HTTP behavior.
	UserAgent   string
	MaxAttempts int
	Timeout     time.Duration

	// Debug additionally writes the intermediate HTML next to the working
	// directory for inspection.
	Debug   bool
	Verbose bool
}
