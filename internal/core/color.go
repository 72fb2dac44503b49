package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// The fixed palette. Head, body and food follow the classic canvas game:
// yellow head, lime body, red food.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightWhite
	ColorGray
)

// Palette roles.
const (
	ColorHead    = ColorYellow
	ColorBody    = ColorBrightGreen
	ColorFood    = ColorRed
	ColorBorder  = ColorGray
	ColorOverlay = ColorBrightWhite
	ColorHUD     = ColorCyan
)
