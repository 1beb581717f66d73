// Package utils holds loose conversions for decoded JSON values.
package utils
