//go:build !release

package model

// integrityChecks enables post-condition checks that guard against logic
// errors. Release builds (-tags release) skip them.
const integrityChecks = true
