package main

// getTerminalHeight returns the height of the terminal in rows
func getTerminalHeight() int {
	// Windows doesn't support the same syscall interface
	// Return a reasonable default
	return 24
}

// getTerminalWidth returns the width of the terminal in columns
func getTerminalWidth() int {
	return 80
}
