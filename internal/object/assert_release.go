//go:build !tracekit_debug

package object

func assertNotUnderflow() {}
