package env

import (
	"fmt"
	"strconv"
	"strings"
)

// OverflowHidden suspends document scrolling.
const OverflowHidden = "hidden"

// ScrollLock is a held suspension of document scrolling.
// The style read at acquisition is restored on Release.
type ScrollLock struct {
	body     Body
	previous BodyStyle
	released bool
}

// LockScroll suspends scrolling of the body and pads it by the scrollbar
// width so fixed-position controls do not shift.
func LockScroll(body Body) *ScrollLock {
	prev := body.BodyStyle()

	locked := BodyStyle{
		Overflow:     OverflowHidden,
		PaddingRight: prev.PaddingRight,
	}
	if w := body.ScrollbarWidth(); w > 0 {
		locked.PaddingRight = addPixels(prev.PaddingRight, w)
	}

	body.SetBodyStyle(locked)

	return &ScrollLock{body: body, previous: prev}
}

// Previous returns the style that will be restored.
func (l *ScrollLock) Previous() BodyStyle {
	return l.previous
}

// Release restores the body style read when the lock was taken.
// Releasing twice is a no-op.
func (l *ScrollLock) Release() {
	if l == nil || l.released {
		return
	}
	l.released = true
	l.body.SetBodyStyle(l.previous)
}

// addPixels adds n pixels to a CSS padding value. Values not expressed in
// whole pixels are replaced by n.
func addPixels(value string, n int) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return fmt.Sprintf("%dpx", n)
	}
	base, err := strconv.Atoi(strings.TrimSuffix(v, "px"))
	if err != nil || !strings.HasSuffix(v, "px") && v != "0" {
		return fmt.Sprintf("%dpx", n)
	}
	return fmt.Sprintf("%dpx", base+n)
}
