package statusbar

import "github.com/hourglassdev/hourglass/internal/types"

// GetHints returns the keybinding hints for the given mode
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeBrowse:
		return "h/j/k/l: move  Enter: edit  Space: done  v: validate  ?: help  q: quit"
	case types.ModeEdit:
		return "Type hours  Enter: apply  Esc: cancel"
	case types.ModeDecide:
		return "Pick a resolution  Esc: keep clamped value"
	default:
		return ""
	}
}
