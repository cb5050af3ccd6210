package formatter

import (
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderLoadBar draws load relative to maxLoad. Loads above quota are red,
// loads at quota green, and anything below yellow.
func RenderLoadBar(load, quota, maxLoad, width int) string {
	if width < 2 {
		width = 2
	}
	if maxLoad <= 0 {
		return StyleDim.Render(strings.Repeat(emptyBlock, width))
	}
	filled := min(width, max(0, load*width/maxLoad))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case load > quota:
		style = StyleRed
	case load < quota:
		style = StyleYellow
	}
	return style.Render(bar)
}
