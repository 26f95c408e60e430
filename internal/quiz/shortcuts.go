package quiz

// ShortcutBuffer resolves numeric slide shortcuts. Slides are numbered from 1.
// A digit that could start a valid two-digit number is held until a second
// digit arrives, the digit key is released, or the buffer is flushed.
// A second digit that would overflow the deck resolves the held digit alone
// and is otherwise dropped. Numbers beyond two digits are not supported.
type ShortcutBuffer struct {
	slideCount           int
	pendingDigit         *int
	pendingDigitConsumed bool
}

// NewShortcutBuffer creates a buffer for a deck of slideCount slides.
func NewShortcutBuffer(slideCount int) *ShortcutBuffer {
	return &ShortcutBuffer{slideCount: slideCount}
}

// Pending reports whether a digit is being held.
func (b *ShortcutBuffer) Pending() bool {
	return b.pendingDigit != nil && !b.pendingDigitConsumed
}

// Press feeds a digit keypress. It returns the target slide index when the
// input resolves.
func (b *ShortcutBuffer) Press(digit int) (int, bool) {
	if digit < 0 || digit > 9 {
		return 0, false
	}

	if b.Pending() {
		first := *b.pendingDigit
		b.pendingDigitConsumed = true
		if n := first*10 + digit; n <= b.slideCount {
			return n - 1, true
		}
		// The second digit cannot extend the first; the first stands alone
		// and the second keypress is dropped.
		return b.target(first)
	}

	b.reset()
	if digit == 0 {
		return 0, false
	}
	if digit*10 <= b.slideCount {
		b.pendingDigit = &digit
		return 0, false
	}
	return b.target(digit)
}

// Release feeds a digit key release. Releasing a held digit resolves it
// unless a second digit already consumed it.
func (b *ShortcutBuffer) Release(digit int) (int, bool) {
	if b.pendingDigit == nil || *b.pendingDigit != digit {
		return 0, false
	}
	consumed := b.pendingDigitConsumed
	b.reset()
	if consumed {
		return 0, false
	}
	return b.target(digit)
}

// Flush resolves a held digit, used when no release event will arrive.
func (b *ShortcutBuffer) Flush() (int, bool) {
	if b.pendingDigit == nil {
		return 0, false
	}
	return b.Release(*b.pendingDigit)
}

func (b *ShortcutBuffer) target(number int) (int, bool) {
	if number < 1 || number > b.slideCount {
		return 0, false
	}
	return number - 1, true
}

func (b *ShortcutBuffer) reset() {
	b.pendingDigit = nil
	b.pendingDigitConsumed = false
}
