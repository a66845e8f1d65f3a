//go:build tracekit_debug

package object

// assertNotUnderflow panics on a refcount release with no matching
// acquire. Gated behind the tracekit_debug build tag so a misbehaving
// component can never abort a production graph (see original_source's
// BT_ASSERT_PRE, itself compiled out of NDEBUG release builds).
func assertNotUnderflow() {
	panic("object: Release called with refcount already at zero")
}
