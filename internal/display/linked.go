package display

// SourceNative tags control changes made on a native trackbar.
const SourceNative = "window"

// NativeControls is a control backend that can also be moved programmatically,
// such as the trackbars of a Window.
type NativeControls interface {
	Controls
	SetControlValue(h Handle, value int, source string) error
}

// Linked mirrors a Board's controls onto native trackbars.
//
// The Board holds the values and may be changed from any goroutine (HTTP,
// preset reloads). The native side is only touched by RegisterIntControl and
// ReadControl, so both must be called on the goroutine that owns it; the
// inspection loop does that once per cycle.
type Linked struct {
	board   *Board
	native  NativeControls
	handles map[Handle]Handle
	seen    map[Handle]int
}

// Link returns Controls backed by board and shown on native.
func Link(board *Board, native NativeControls) *Linked {
	return &Linked{
		board:   board,
		native:  native,
		handles: make(map[Handle]Handle),
		seen:    make(map[Handle]int),
	}
}

// RegisterIntControl implements Controls.
func (l *Linked) RegisterIntControl(label string, lo, hi, initial int) Handle {
	h := l.board.RegisterIntControl(label, lo, hi, initial)
	if _, ok := l.handles[h]; ok {
		return h
	}
	v := l.board.ReadControl(h)
	l.handles[h] = l.native.RegisterIntControl(label, lo, hi, v)
	l.seen[h] = v
	return h
}

// ReadControl implements Controls. A trackbar moved since the last read wins
// and is written to the board; otherwise the board value is pushed to the trackbar.
func (l *Linked) ReadControl(h Handle) int {
	nh, ok := l.handles[h]
	if !ok {
		return l.board.ReadControl(h)
	}

	pos := l.native.ReadControl(nh)
	if pos != l.seen[h] {
		_ = l.board.SetControlValue(h, pos, SourceNative)
	}
	v := l.board.ReadControl(h)
	if v != pos {
		_ = l.native.SetControlValue(nh, v, SourceNative)
	}
	l.seen[h] = v
	return v
}

// SetControlValue sets the board value only; the trackbar follows on the next read.
func (l *Linked) SetControlValue(h Handle, value int, source string) error {
	return l.board.SetControlValue(h, value, source)
}
