//go:build debug

package debug

const DEBUG = true
