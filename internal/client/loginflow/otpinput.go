package loginflow

import "strings"

// OTPSlots is the number of digit boxes in the verification step.
const OTPSlots = 6

// OTPInput models the six single-digit slots and the focus movement between
// them. All methods are plain state updates; rendering is the caller's job.
type OTPInput struct {
	slots [OTPSlots]rune
	focus int
}

func NewOTPInput() *OTPInput {
	return &OTPInput{}
}

// Type enters a value into the given slot. Non-digit input is ignored; a
// multi-character value keeps only its last digit, matching overtype
// behavior in a maxLength=1 field. Focus advances to the next slot.
func (o *OTPInput) Type(index int, value string) {
	if index < 0 || index >= OTPSlots {
		return
	}
	if value == "" {
		o.slots[index] = 0
		return
	}
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return
		}
	}

	runes := []rune(value)
	o.slots[index] = runes[len(runes)-1]
	if index < OTPSlots-1 {
		o.focus = index + 1
	} else {
		o.focus = index
	}
}

// Backspace clears the slot, or moves focus back when the slot is already
// empty.
func (o *OTPInput) Backspace(index int) {
	if index < 0 || index >= OTPSlots {
		return
	}
	if o.slots[index] == 0 && index > 0 {
		o.focus = index - 1
		return
	}
	o.slots[index] = 0
	o.focus = index
}

// Paste distributes a digit string left-to-right from slot 0, truncated to
// six digits; focus follows the pasted digits, clamped to the last slot.
// Non-numeric pastes are ignored wholesale.
func (o *OTPInput) Paste(value string) {
	if value == "" {
		return
	}

	runes := []rune(value)
	if len(runes) > OTPSlots {
		runes = runes[:OTPSlots]
	}
	for _, ch := range runes {
		if ch < '0' || ch > '9' {
			return
		}
	}

	o.slots = [OTPSlots]rune{}
	copy(o.slots[:], runes)

	o.focus = len(runes)
	if o.focus > OTPSlots-1 {
		o.focus = OTPSlots - 1
	}
}

// Clear empties every slot and resets focus to the first one.
func (o *OTPInput) Clear() {
	o.slots = [OTPSlots]rune{}
	o.focus = 0
}

// Value returns the digits entered so far, concatenated.
func (o *OTPInput) Value() string {
	var b strings.Builder
	for _, ch := range o.slots {
		if ch != 0 {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// Complete reports whether all six slots are filled.
func (o *OTPInput) Complete() bool {
	for _, ch := range o.slots {
		if ch == 0 {
			return false
		}
	}
	return true
}

// Focus returns the slot index that currently holds focus.
func (o *OTPInput) Focus() int {
	return o.focus
}
