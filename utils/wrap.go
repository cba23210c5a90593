package utils

import (
	"strings"

	"github.com/rivo/uniseg"
)

// WordWrap breaks text into lines no wider than width terminal cells,
// splitting at uniseg's line-break opportunities when one is available and
// mid-cluster otherwise. Mandatory breaks (newlines) are honored and
// stripped from the output.
func WordWrap(text string, width int) (lines []string) {
	if width <= 0 {
		return nil
	}

	var (
		state                = -1
		lineLen, lineWidth   int
		breakLen, breakWidth int
	)

	rest := text
	for len(rest) > 0 {
		var cluster string
		var boundaries int
		cluster, rest, boundaries, state = uniseg.StepString(rest, state)

		// uniseg reports a mandatory break at end of text; only honor it
		// when the text really ends in a line break.
		if rest == "" && !uniseg.HasTrailingLineBreakInString(cluster) {
			boundaries &^= uniseg.MaskLine
		}

		clusterWidth := boundaries >> uniseg.ShiftWidth
		if lineWidth+clusterWidth > width {
			if breakLen > 0 {
				// Split at the last break opportunity.
				lines = append(lines, text[:breakLen])
				text = text[breakLen:]
				lineLen -= breakLen
				lineWidth -= breakWidth
			} else {
				// No opportunity on this line; split mid-word.
				lines = append(lines, text[:lineLen])
				text = text[lineLen:]
				lineLen, lineWidth = 0, 0
			}
			breakLen, breakWidth = 0, 0
		}

		lineLen += len(cluster)
		lineWidth += clusterWidth

		switch boundaries & uniseg.MaskLine {
		case uniseg.LineMustBreak:
			lines = append(lines, strings.TrimRight(text[:lineLen], "\r\n"))
			text = text[lineLen:]
			lineLen, lineWidth, breakLen, breakWidth = 0, 0, 0, 0
		case uniseg.LineCanBreak:
			breakLen, breakWidth = lineLen, lineWidth
		}
	}

	if len(text) > 0 || len(lines) == 0 {
		lines = append(lines, text)
	}
	return lines
}
