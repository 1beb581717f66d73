// Package models defines the stored job ad row and listing types.
package models
