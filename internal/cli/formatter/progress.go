package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// DoneBar renders how much of a team's work is finished, e.g. "███░░░ 3/6".
// An empty board renders as a dash.
func DoneBar(done, total, width int) string {
	if total <= 0 {
		return Dim("—")
	}
	done = min(max(done, 0), total)
	width = max(width, 2)

	filled := done * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch ratio := float64(done) / float64(total); {
	case ratio < 0.33:
		style = StyleRed
	case ratio < 0.66:
		style = StyleYellow
	}
	return style.Render(bar) + " " + Dim(fmt.Sprintf("%d/%d", done, total))
}
