//go:build windows

package platform

// ModifierState returns the modifier keys held right now
func ModifierState() Modifier {
	var m Modifier
	if isKeyPressed(vkCtrl) {
		m |= ModCtrl
	}
	if isKeyPressed(vkAlt) {
		m |= ModAlt
	}
	if isKeyPressed(vkShift) {
		m |= ModShift
	}
	if isKeyPressed(vkLwin) || isKeyPressed(vkRwin) {
		m |= ModWin
	}
	return m
}

func isKeyPressed(vk int) bool {
	r, _, _ := getAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0
}
