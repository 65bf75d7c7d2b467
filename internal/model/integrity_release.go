//go:build release

package model

const integrityChecks = false
