package sessync

import "time"

// suppressionWindow is the time-bounded guard that keeps a stale, slower
// revalidation from overwriting a just-established session. It is armed on
// every successful login or registration and disarms either by expiry or by
// an explicit clear on logout.
//
// The zero value is disarmed. Not safe for concurrent use; the machine
// accesses it only under its mutex.
type suppressionWindow struct {
	armedAt time.Time
	armed   bool
	window  time.Duration
}

func (w *suppressionWindow) arm(now time.Time) {
	w.armed = true
	w.armedAt = now
}

func (w *suppressionWindow) clear() {
	w.armed = false
	w.armedAt = time.Time{}
}

// active reports whether suppression is in force at now. Expiry is
// observed lazily: the first check past the deadline disarms the window.
func (w *suppressionWindow) active(now time.Time) bool {
	if !w.armed {
		return false
	}
	if now.Sub(w.armedAt) >= w.window {
		w.clear()
		return false
	}
	return true
}
