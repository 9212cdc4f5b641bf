package core

// Color represents a foreground color for a screen cell.
// The platform layer maps these to ANSI colours.
type Color uint8

// Predefined colors for frame elements.
const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightWhite
	ColorGray
)
