package markdown

import (
	"strings"

	"github.com/rivo/uniseg"
)

// PlainText reduces nodes to the text a reader would see, without styling.
// Container nodes contribute their children; images contribute nothing.
func PlainText(nodes []InlineNode) string {
	var b strings.Builder
	writePlainText(&b, nodes)
	return b.String()
}

func writePlainText(b *strings.Builder, nodes []InlineNode) {
	for _, node := range nodes {
		switch node.Kind {
		case KindText, KindCode, KindHTML:
			b.WriteString(node.Content)
		case KindSoftBreak:
			b.WriteByte(' ')
		case KindLineBreak:
			b.WriteByte('\n')
		case KindEmphasis, KindStrong, KindStrikethrough, KindLink:
			writePlainText(b, node.Children)
		}
	}
}

// PlainTextLength counts the user-perceived characters of nodes, the value
// used to size per-character effects such as gradients. A br fragment counts
// as one character; any other HTML fragment counts its full length.
func PlainTextLength(nodes []InlineNode, mode SoftBreakMode) int {
	total := 0
	for _, node := range nodes {
		switch node.Kind {
		case KindText, KindCode:
			total += uniseg.GraphemeClusterCount(node.Content)
		case KindSoftBreak, KindLineBreak:
			// A soft break is one character in either mode.
			total++
		case KindHTML:
			if IsLineBreakTag(node.Content) {
				total++
			} else {
				total += uniseg.GraphemeClusterCount(node.Content)
			}
		case KindEmphasis, KindStrong, KindStrikethrough, KindLink:
			total += PlainTextLength(node.Children, mode)
		}
	}
	return total
}
