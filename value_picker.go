package main

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// fuzzyMatch performs fuzzy matching and returns match status and positions.
// It matches characters from search in order within text (case-insensitive).
// Returns true if all characters in search were found, and the positions of those characters.
func fuzzyMatch(search, text string) (bool, []int) {
	search = strings.ToLower(search)
	text = strings.ToLower(text)

	var positions []int
	searchIdx := 0

	for i, char := range text {
		if searchIdx < len(search) && char == rune(search[searchIdx]) {
			positions = append(positions, i)
			searchIdx++
		}
	}

	return searchIdx == len(search), positions
}

// highlightMatches formats an item with tview color codes on the
// matched positions, bold dark green.
func highlightMatches(item string, positions []int) string {
	if len(positions) == 0 {
		return item
	}

	highlightMap := make(map[int]bool)
	for _, pos := range positions {
		highlightMap[pos] = true
	}

	var result strings.Builder
	for i, r := range []rune(item) {
		if highlightMap[i] {
			result.WriteString("[darkgreen::b]")
			result.WriteRune(r)
			result.WriteString("[-::-]")
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// cleanItems removes newlines and whitespace from picker items
func cleanItems(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(strings.ReplaceAll(item, "\n", ""))
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned
}

// ValuePicker is a fuzzy-searchable dropdown overlaid at the top of the
// screen. It picks tables at startup and filter values in filter mode.
type ValuePicker struct {
	*tview.Box
	items         []string // All selectable items
	searchText    string   // Current search text
	selectedIndex int      // Highlighted item in dropdown
	dropdownList  *tview.List
	maxVisible    int // Max items to show in dropdown (6)
	inputField    *tview.InputField
	innerFlex     *tview.Flex
	dropdownFlex  *tview.Flex // Flex container for dropdown (to allow resizing)
	placeholder   string

	// Callbacks
	onSelect func(item string) // Called when an item is picked
	onClose  func()            // Called when the picker should be closed
}

// NewValuePicker creates a picker over the given items.
func NewValuePicker(items []string, initial string, onSelect func(string), onClose func()) *ValuePicker {
	vp := &ValuePicker{
		Box:           tview.NewBox(),
		items:         cleanItems(items),
		selectedIndex: 0,
		maxVisible:    6,
		placeholder:   "Search for tables/views...",
		onSelect:      onSelect,
		onClose:       onClose,
	}

	// Pre-initialize the layout so the input field exists immediately
	filtered, matchPositions := vp.calculateFiltered("")
	vp.buildInnerLayout(filtered, matchPositions)

	return vp
}

// SetItems replaces the selectable items, used when the same picker is
// repurposed for a different column's filter values.
func (vp *ValuePicker) SetItems(items []string) *ValuePicker {
	vp.items = cleanItems(items)
	vp.clearSearchText()
	return vp
}

// SetPlaceholder sets the search field placeholder text.
func (vp *ValuePicker) SetPlaceholder(text string) *ValuePicker {
	vp.placeholder = text
	if vp.inputField != nil {
		vp.inputField.SetPlaceholder(text)
	}
	return vp
}

// SetSelectFunc replaces the selection callback.
func (vp *ValuePicker) SetSelectFunc(onSelect func(string)) *ValuePicker {
	vp.onSelect = onSelect
	return vp
}

// calculateFiltered filters the item list against the search text and
// returns surviving items plus their match positions.
func (vp *ValuePicker) calculateFiltered(search string) ([]string, map[int][]int) {
	filtered := []string{}
	matchPositions := make(map[int][]int)

	if search == "" {
		filtered = vp.items
		for i := range vp.items {
			matchPositions[i] = []int{}
		}
	} else {
		for _, item := range vp.items {
			matches, positions := fuzzyMatch(search, item)
			if matches {
				filtered = append(filtered, item)
				matchPositions[len(filtered)-1] = positions
			}
		}
	}

	return filtered, matchPositions
}

// Draw implements tview.Primitive. Filtered results and match positions
// are recalculated on each frame.
func (vp *ValuePicker) Draw(screen tcell.Screen) {
	debugLog("Drawing value picker\n")
	vp.Box.DrawForSubclass(screen, vp)

	filtered, matchPositions := vp.calculateFiltered(vp.searchText)

	if vp.innerFlex == nil {
		vp.buildInnerLayout(filtered, matchPositions)
	} else {
		// Just update the dropdown list without rebuilding the input field
		vp.updateDropdownList(filtered, matchPositions)
	}

	if vp.innerFlex != nil {
		x, y, width, height := vp.GetInnerRect()
		vp.innerFlex.SetRect(x, y, width, height)
		vp.innerFlex.Draw(screen)
	}
}

// InputHandler forwards keyboard events to the search field.
func (vp *ValuePicker) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return vp.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		if vp.inputField != nil {
			if handler := vp.inputField.InputHandler(); handler != nil {
				handler(event, setFocus)
				return
			}
		}
	})
}

// MouseHandler enables hover highlighting and click selection in the
// dropdown list.
func (vp *ValuePicker) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
	return vp.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
		mouseX, mouseY := event.Position()

		if vp.dropdownList != nil {
			listX, listY, listWidth, listHeight := vp.dropdownList.GetRect()

			if mouseX >= listX && mouseX < listX+listWidth &&
				mouseY >= listY && mouseY < listY+listHeight {

				filtered, _ := vp.calculateFiltered(vp.searchText)
				if len(filtered) == 0 {
					return false, nil
				}

				itemIndex := mouseY - listY
				if itemIndex >= 0 && itemIndex < len(filtered) {
					switch action {
					case tview.MouseMove:
						vp.dropdownList.SetCurrentItem(itemIndex)
						vp.selectedIndex = itemIndex
						return true, nil

					case tview.MouseLeftClick:
						if vp.onSelect != nil {
							vp.clearSearchText()
							vp.onSelect(filtered[itemIndex])
						}
						return true, nil
					}
				}
			}
		}

		// Forward other mouse events to inner components
		if vp.innerFlex != nil {
			if handler := vp.innerFlex.MouseHandler(); handler != nil {
				consumed, primitive := handler(action, event, setFocus)
				if consumed {
					return true, primitive
				}
			}
		}

		return false, nil
	})
}

// Focus forwards focus to the search field.
func (vp *ValuePicker) Focus(delegate func(p tview.Primitive)) {
	if vp.inputField != nil {
		delegate(vp.inputField)
	}
}

// HasFocus reports whether the search field has focus.
func (vp *ValuePicker) HasFocus() bool {
	if vp.inputField != nil {
		return vp.inputField.HasFocus()
	}
	return false
}

// buildInnerLayout builds the internal flex layout with the search
// field and the dropdown.
func (vp *ValuePicker) buildInnerLayout(filtered []string, matchPositions map[int][]int) {
	inputField := vp.createInputField()
	vp.createDropdownListWithData(filtered, matchPositions)

	listHeight := len(filtered)
	if listHeight == 0 {
		listHeight = 1 // Show "No results"
	}
	if listHeight > vp.maxVisible {
		listHeight = vp.maxVisible
	}

	vp.dropdownFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(inputField, 1, 0, true).
		AddItem(vp.dropdownList, listHeight, 0, false)

	// Outer flex: 1-character left padding + inner flex
	vp.innerFlex = tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(vp.dropdownFlex, 0, 1, true)
}

// updateDropdownList replaces the dropdown list without rebuilding the
// search field.
func (vp *ValuePicker) updateDropdownList(filtered []string, matchPositions map[int][]int) {
	if vp.dropdownFlex == nil {
		return
	}

	vp.dropdownFlex.RemoveItem(vp.dropdownList)
	vp.createDropdownListWithData(filtered, matchPositions)

	listHeight := len(filtered)
	if listHeight == 0 {
		listHeight = 1 // Show "No results"
	}
	if listHeight > vp.maxVisible {
		listHeight = vp.maxVisible
	}

	vp.dropdownFlex.AddItem(vp.dropdownList, listHeight, 0, false)
}

func (vp *ValuePicker) createInputField() *tview.InputField {
	inputField := tview.NewInputField().
		SetLabel("").
		SetText(vp.searchText).
		SetPlaceholder(vp.placeholder).
		SetFieldWidth(0)

	vp.inputField = inputField

	// Update search text (dropdown will be updated in Draw)
	inputField.SetChangedFunc(func(text string) {
		vp.searchText = text
	})

	inputField.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		debugLog("Picker input capture: %v\n", event.Key())
		filtered, _ := vp.calculateFiltered(vp.searchText)

		switch event.Key() {
		case tcell.KeyEscape:
			if vp.onClose != nil {
				vp.onClose()
			}
			return nil
		case tcell.KeyDown, tcell.KeyTab:
			if vp.dropdownList != nil && len(filtered) > 0 {
				vp.selectedIndex++
				vp.dropdownList.SetCurrentItem(vp.selectedIndex)
				return tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)
			}
			return nil
		case tcell.KeyUp, tcell.KeyBacktab:
			if vp.dropdownList != nil && len(filtered) > 0 {
				vp.selectedIndex--
				vp.dropdownList.SetCurrentItem(vp.selectedIndex)
				return tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)
			}
			return nil
		case tcell.KeyEnter:
			if vp.dropdownList != nil && len(filtered) > 0 {
				if idx := vp.dropdownList.GetCurrentItem(); idx >= 0 && idx < len(filtered) {
					if vp.onSelect != nil {
						vp.clearSearchText()
						vp.onSelect(filtered[idx])
					}
				}
				return nil
			}
		}
		return event
	})

	return inputField
}

// clearSearchText clears the search text and resets the highlight.
func (vp *ValuePicker) clearSearchText() {
	vp.searchText = ""
	if vp.inputField != nil {
		vp.inputField.SetText("")
	}
	vp.selectedIndex = 0
}

// createDropdownListWithData populates the dropdown list with
// pre-calculated filtered results.
func (vp *ValuePicker) createDropdownListWithData(filtered []string, matchPositions map[int][]int) {
	vp.dropdownList = tview.NewList().
		SetWrapAround(true).
		ShowSecondaryText(false)

	if len(filtered) == 0 {
		vp.dropdownList.AddItem("No results", "", rune(0), nil)
	} else {
		for i, item := range filtered {
			displayText := highlightMatches(item, matchPositions[i])

			// Capture item in closure for selection handler
			name := item
			vp.dropdownList.AddItem(displayText, "", rune(0), func() {
				if vp.onSelect != nil {
					vp.clearSearchText()
					vp.onSelect(name)
				}
			})
		}
	}

	if vp.selectedIndex >= 0 && vp.selectedIndex < len(filtered) {
		vp.dropdownList.SetCurrentItem(vp.selectedIndex)
	}

	vp.dropdownList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentItem := vp.dropdownList.GetCurrentItem()

		switch event.Key() {
		case tcell.KeyEscape:
			// Return focus to the search field
			return tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone)
		case tcell.KeyUp:
			if currentItem == 0 {
				return tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone)
			}
			return event
		case tcell.KeyBacktab:
			return event
		case tcell.KeyEnter:
			if currentItem >= 0 && currentItem < len(filtered) {
				if vp.onSelect != nil {
					vp.clearSearchText()
					vp.onSelect(filtered[currentItem])
				}
			}
			return nil
		}
		return event
	})
}
