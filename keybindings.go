package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
)

func (a *App) setupKeyBindings() {
	a.view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		key := event.Key()
		r := event.Rune()
		mod := event.Modifiers()

		row, col := a.view.GetSelection()

		// Record keyboard event in breadcrumbs (but not during edit mode)
		if breadcrumbs != nil && !a.editing {
			keyStr := fmt.Sprintf("%v", key)
			if key == tcell.KeyRune {
				keyStr = string(r)
			}
			modStr := ""
			if mod&tcell.ModCtrl != 0 {
				modStr += "Ctrl+"
			}
			if mod&tcell.ModShift != 0 {
				modStr += "Shift+"
			}
			if mod&tcell.ModAlt != 0 {
				modStr += "Alt+"
			}
			breadcrumbs.RecordKeyboard(keyStr, modStr)
		}

		if a.consumeKittyCSI(key, r, mod) {
			return nil
		}

		// Ctrl+O: open/close table picker, works before any table is open
		if (r == 'o' || r == 15) && mod&tcell.ModCtrl != 0 {
			a.showTablePicker()
			return nil
		}
		if a.grid == nil {
			return event
		}

		seqLen := a.grid.Virtualizer().SequenceLen()
		lastCol := len(a.grid.Columns()) - 1

		switch {
		case key == tcell.KeyEnter:
			a.enterEditMode(row, col)
			return nil
		case key == tcell.KeyEscape:
			if a.app.GetFocus() == a.commandPalette {
				a.setPaletteMode(PaletteModeDefault, false)
				a.app.SetFocus(a.view)
				return nil
			}
			if a.view.findMode {
				a.view.SetFindMode(false)
				return nil
			}
			a.exitEditMode()
			return nil
		case key == tcell.KeyTab:
			a.navigateTab(false)
			return nil
		case key == tcell.KeyBacktab:
			a.navigateTab(true)
			return nil
		case key == tcell.KeyHome:
			if mod&tcell.ModCtrl != 0 {
				// Ctrl+Home: jump to first row
				a.view.Select(0, col)
				return nil
			}
			a.view.Select(row, 0)
			return nil
		case key == tcell.KeyEnd:
			if mod&tcell.ModCtrl != 0 {
				// Ctrl+End: jump to last row
				a.view.Select(seqLen-1, col)
				return nil
			}
			a.view.Select(row, lastCol)
			return nil
		case key == tcell.KeyPgUp:
			step := max(1, a.dataHeight-1)
			a.grid.Scroll(a.grid.Virtualizer().Start() - step)
			a.view.Select(max(0, row-step), col)
			return nil
		case key == tcell.KeyPgDn:
			step := max(1, a.dataHeight-1)
			a.grid.Scroll(a.grid.Virtualizer().Start() + step)
			a.view.Select(min(seqLen-1, row+step), col)
			return nil
		// Ctrl+F sends ACK (6) or 'f' depending on terminal
		case (r == 'f' || r == 6) && mod&tcell.ModCtrl != 0:
			a.view.SetFindMode(true)
			a.setPaletteMode(PaletteModeFind, true)
			return nil
		// Ctrl+S: cycle the selected column's sort
		case (r == 's' || r == 19) && mod&tcell.ModCtrl != 0:
			a.cycleSortOnColumn(col)
			return nil
		// Ctrl+E: pick filter values for the selected column
		case (r == 'e' || r == 5) && mod&tcell.ModCtrl != 0:
			a.showFilterPicker(col)
			return nil
		// Ctrl+X: clear the selected column's filter
		case (r == 'x' || r == 24) && mod&tcell.ModCtrl != 0:
			a.clearFilterOnColumn(col)
			return nil
		// Ctrl+G: go to page
		case (r == 'g' || r == 7) && mod&tcell.ModCtrl != 0:
			a.setPaletteMode(PaletteModeGoto, true)
			return nil
		// Alt+G: toggle grouping by the selected column
		case key == tcell.KeyRune && (r == 'g' || r == 'G') && mod&tcell.ModAlt != 0:
			a.toggleGroupOnColumn(col)
			return nil
		case key == tcell.KeyLeft && mod&tcell.ModAlt != 0:
			a.grid.PrevPage()
			return nil
		case key == tcell.KeyRight && mod&tcell.ModAlt != 0:
			a.grid.NextPage()
			return nil
		case key == tcell.KeyRune && r == '=' && mod&tcell.ModCtrl != 0:
			a.adjustColumnWidth(col, 1)
			return nil
		case key == tcell.KeyRune && r == '-' && mod&tcell.ModCtrl != 0:
			a.adjustColumnWidth(col, -1)
			return nil
		case key == tcell.KeyLeft && mod&tcell.ModMeta != 0:
			a.view.Select(row, 0)
			return nil
		case key == tcell.KeyRight && mod&tcell.ModMeta != 0:
			a.view.Select(row, lastCol)
			return nil
		case key == tcell.KeyUp:
			if mod&tcell.ModMeta != 0 {
				a.view.Select(0, col)
			} else if row > 0 {
				a.view.Select(row-1, col)
			}
			return nil
		case key == tcell.KeyDown:
			if mod&tcell.ModMeta != 0 {
				a.view.Select(seqLen-1, col)
			} else if row < seqLen-1 {
				a.view.Select(row+1, col)
			}
			return nil
		case key == tcell.KeyBackspace || key == tcell.KeyBackspace2 || key == tcell.KeyDEL || key == tcell.KeyDelete:
			// Backspace or Delete: start editing with empty string
			a.enterEditModeWithInitialText(row, col, "")
			return nil
		// Vim mode keybindings
		case a.vimMode && key == tcell.KeyRune && r == 'h' && mod == 0:
			if col > 0 {
				a.view.Select(row, col-1)
			}
			return nil
		case a.vimMode && key == tcell.KeyRune && r == 'l' && mod == 0:
			if col < lastCol {
				a.view.Select(row, col+1)
			}
			return nil
		case a.vimMode && key == tcell.KeyRune && r == 'j' && mod == 0:
			if row < seqLen-1 {
				a.view.Select(row+1, col)
			}
			return nil
		case a.vimMode && key == tcell.KeyRune && r == 'k' && mod == 0:
			if row > 0 {
				a.view.Select(row-1, col)
			}
			return nil
		case a.vimMode && key == tcell.KeyRune && r == 'g' && mod == 0:
			// g and gg both jump to the first row
			if time.Since(a.lastGPress) < 500*time.Millisecond {
				a.lastGPress = time.Time{}
			} else {
				a.lastGPress = time.Now()
			}
			a.view.Select(0, col)
			return nil
		case a.vimMode && key == tcell.KeyRune && r == 'G':
			a.view.Select(seqLen-1, col)
			return nil
		case a.vimMode && key == tcell.KeyRune && (r == '0' || r == '^') && mod == 0:
			a.view.Select(row, 0)
			return nil
		case a.vimMode && key == tcell.KeyRune && r == '$' && mod&tcell.ModShift != 0:
			a.view.Select(row, lastCol)
			return nil
		case a.vimMode && key == tcell.KeyRune && r == 'i' && mod == 0:
			// i: enter edit mode with all text selected
			a.enterEditModeWithSelection(row, col, true)
			return nil
		case a.vimMode && key == tcell.KeyRune && r == 'a' && mod == 0:
			// a: enter edit mode with cursor at end
			a.enterEditModeWithSelection(row, col, false)
			return nil
		case a.vimMode && (r == 'b' || r == 2) && mod&tcell.ModCtrl != 0:
			step := max(1, a.dataHeight-1)
			a.grid.Scroll(a.grid.Virtualizer().Start() - step)
			a.view.Select(max(0, row-step), col)
			return nil
		default:
			// In vim mode, don't auto-enter edit mode on typing
			// (use 'i' or 'a' instead)
			if !a.vimMode && key == tcell.KeyRune && r != 0 &&
				mod&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) == 0 {
				a.enterEditModeWithInitialText(row, col, string(r))
				return nil
			}
		}

		return event
	})
}

// consumeKittyCSI folds kitty keyboard-protocol escape sequences back
// into the keys they encode. Terminals speaking the protocol deliver
// Ctrl+= and friends as a CSI u sequence instead of a rune.
func (a *App) consumeKittyCSI(key tcell.Key, r rune, mod tcell.ModMask) bool {
	if a.kittySequenceActive {
		if key != tcell.KeyRune {
			a.kittySequenceActive = false
			a.kittySequenceBuffer = ""
			return false
		}

		if r == 'u' {
			seq := a.kittySequenceBuffer
			a.kittySequenceActive = false
			a.kittySequenceBuffer = ""
			parts := strings.SplitN(seq, ";", 2)
			if len(parts) == 2 {
				codepoint, err1 := strconv.Atoi(parts[0])
				modifier, err2 := strconv.Atoi(parts[1])
				if err1 == nil && err2 == nil {
					mask := modifier - 1
					// Check if Ctrl is pressed (bit 2, value 4)
					if mask&4 != 0 {
						_, col := a.view.GetSelection()
						switch codepoint {
						case 102: // Ctrl+F (find)
							a.view.SetFindMode(true)
							a.setPaletteMode(PaletteModeFind, true)
						case 61: // Ctrl+= (increase column width)
							a.adjustColumnWidth(col, 1)
						case 45: // Ctrl+- (decrease column width)
							a.adjustColumnWidth(col, -1)
						}
					}
				}
			}
			return true
		}

		a.kittySequenceBuffer += string(r)
		return true
	}

	if key == tcell.KeyRune && r == '[' {
		a.kittySequenceActive = true
		a.kittySequenceBuffer = ""
		return true
	}

	return false
}

func (a *App) navigateTab(reverse bool) {
	if a.grid == nil {
		return
	}
	row, col := a.view.GetSelection()
	seqLen := a.grid.Virtualizer().SequenceLen()
	lastCol := len(a.grid.Columns()) - 1

	if reverse {
		if col > 0 {
			a.view.Select(row, col-1)
		} else if row > 0 {
			a.view.Select(row-1, lastCol)
		}
	} else {
		if col < lastCol {
			a.view.Select(row, col+1)
		} else if row < seqLen-1 {
			a.view.Select(row+1, 0)
		}
	}
}
