package markdown

// ImageRef is one distinct image source found in an inline sequence.
type ImageRef struct {
	Source string
	Alt    string
}

// ImageRefs collects the distinct image sources referenced anywhere in nodes,
// including inside links and emphasis, in first-seen order. The alt text of
// the first occurrence wins.
func ImageRefs(nodes []InlineNode) []ImageRef {
	var refs []ImageRef
	seen := make(map[string]struct{})
	Walk(nodes, func(node InlineNode) bool {
		if node.Kind != KindImage {
			return true
		}
		if _, ok := seen[node.Source]; !ok {
			seen[node.Source] = struct{}{}
			refs = append(refs, ImageRef{Source: node.Source, Alt: PlainText(node.Children)})
		}
		return false
	})
	return refs
}
