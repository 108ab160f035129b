package markdown

// Kind identifies the variant carried by an InlineNode.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindSoftBreak
	KindLineBreak
	KindCode
	KindHTML
	KindImage
	KindLink
	KindEmphasis
	KindStrong
	KindStrikethrough
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindText:          "text",
	KindSoftBreak:     "softBreak",
	KindLineBreak:     "lineBreak",
	KindCode:          "code",
	KindHTML:          "html",
	KindImage:         "image",
	KindLink:          "link",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindStrikethrough: "strikethrough",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// InlineNode is one parsed inline element. Which fields are meaningful
// depends on Kind:
//
//	KindText, KindCode, KindHTML   Content
//	KindLink                       Destination, Children
//	KindImage                      Source, Children (alt text)
//	KindEmphasis, KindStrong,
//	KindStrikethrough              Children
//
// Nodes are treated as immutable once built.
type InlineNode struct {
	Kind        Kind
	Content     string
	Destination string
	Source      string
	Children    []InlineNode
}

func Text(content string) InlineNode { return InlineNode{Kind: KindText, Content: content} }

func SoftBreak() InlineNode { return InlineNode{Kind: KindSoftBreak} }

func LineBreak() InlineNode { return InlineNode{Kind: KindLineBreak} }

func Code(content string) InlineNode { return InlineNode{Kind: KindCode, Content: content} }

func HTML(content string) InlineNode { return InlineNode{Kind: KindHTML, Content: content} }

func Emphasis(children ...InlineNode) InlineNode {
	return InlineNode{Kind: KindEmphasis, Children: children}
}

func Strong(children ...InlineNode) InlineNode {
	return InlineNode{Kind: KindStrong, Children: children}
}

func Strikethrough(children ...InlineNode) InlineNode {
	return InlineNode{Kind: KindStrikethrough, Children: children}
}

func Link(destination string, children ...InlineNode) InlineNode {
	return InlineNode{Kind: KindLink, Destination: destination, Children: children}
}

// Image builds an image reference whose children hold the alt text.
func Image(source string, children ...InlineNode) InlineNode {
	return InlineNode{Kind: KindImage, Source: source, Children: children}
}

// Equal reports whether two inline sequences are structurally identical.
func Equal(a, b []InlineNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether n and other are structurally identical.
func (n InlineNode) Equal(other InlineNode) bool {
	return n.Kind == other.Kind &&
		n.Content == other.Content &&
		n.Destination == other.Destination &&
		n.Source == other.Source &&
		Equal(n.Children, other.Children)
}

// Walk visits every node depth-first in document order. Returning false from
// fn skips the node's children.
func Walk(nodes []InlineNode, fn func(InlineNode) bool) {
	for _, node := range nodes {
		if fn(node) && len(node.Children) > 0 {
			Walk(node.Children, fn)
		}
	}
}

// IsSingleLink reports whether nodes consist of exactly one link.
func IsSingleLink(nodes []InlineNode) bool {
	return len(nodes) == 1 && nodes[0].Kind == KindLink
}
