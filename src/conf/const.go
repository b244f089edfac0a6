// Package conf contains the constants that are used across packages for configuring
// versions and classifier sampling limits.
package conf

import (
	"fmt"
	"time"
)

const (
	// VERSION is the version of the decl application.
	VERSION = "Decl 0.1.0"
	// VERSIONMAJORN is the major version.
	VERSIONMAJORN = 0
	// VERSIONMINORN is the minor version.
	VERSIONMINORN = 1
	// VERSIONPATCHN is the patch version.
	VERSIONPATCHN = 0
	// SEQSAMPLELIMIT is how many elements of a sequence the classifier will
	// inspect before trusting the rest.
	SEQSAMPLELIMIT = 5
	// MAPSAMPLELIMIT is how many key/value pairs of a mapping the classifier
	// will inspect before trusting the rest.
	MAPSAMPLELIMIT = 5
	// DECLEXT is the filename suffix that pairs a module with its declaration file.
	DECLEXT = ".decl"
)

// FullVersion returns the version and copyright.
func FullVersion() string {
	return fmt.Sprintf("%v Copyright (C) %v", VERSION, time.Now().Year())
}

// Copyright is the copyright to be written out in the CLI.
func Copyright() string {
	return fmt.Sprintf("Copyright (C) %v", time.Now().Year())
}
