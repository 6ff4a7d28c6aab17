// Package blendbench holds module-wide metadata.
package blendbench

// Version is the blendbench release version.
const Version = "0.2.0"
