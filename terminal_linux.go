package main

import (
	"syscall"
	"unsafe"
)

type winsize struct {
	Row    uint16
	Col    uint16
	Xpixel uint16
	Ypixel uint16
}

func terminalSize() (rows, cols int) {
	ws := &winsize{}
	retCode, _, errno := syscall.Syscall(syscall.SYS_IOCTL,
		uintptr(syscall.Stdin),
		uintptr(syscall.TIOCGWINSZ),
		uintptr(unsafe.Pointer(ws)))

	if int(retCode) == -1 {
		// If we can't get terminal size, return reasonable defaults
		_ = errno // avoid unused variable error
		return 24, 80
	}
	return int(ws.Row), int(ws.Col)
}

// getTerminalHeight returns the height of the terminal in rows
func getTerminalHeight() int {
	rows, _ := terminalSize()
	return rows
}

// getTerminalWidth returns the width of the terminal in columns
func getTerminalWidth() int {
	_, cols := terminalSize()
	return cols
}
