package tui

type focusKind int

const (
	focusList focusKind = iota
	focusInput
	focusEdit
)

func focusToString(f focusKind) string {
	switch f {
	case focusInput:
		return "input"
	case focusEdit:
		return "edit"
	default:
		return "list"
	}
}

type storageChangedMsg struct{}

type flashDoneMsg struct{ seq int }
