//go:build !windows

package platform

// ModifierState reports no held modifiers where the key state cannot be queried
func ModifierState() Modifier {
	return 0
}
