//go:build !ringdebug

package ring

// check is compiled to a no-op unless the ringdebug build tag is set.
func (r *Ring) check() {}
