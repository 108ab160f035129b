package markdown

// Document is a parsed Markdown document reduced to the blocks the viewer
// lays out.
type Document struct {
	Blocks []Block
}

// Block is one block-level element.
type Block interface {
	BlockType() BlockType
}

type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
	BlockCode
	BlockList
	BlockQuote
	BlockRule
	BlockHTML
	BlockTable
)

type Heading struct {
	Level   int
	Inlines []InlineNode
}

func (Heading) BlockType() BlockType { return BlockHeading }

type Paragraph struct {
	Inlines []InlineNode
}

func (Paragraph) BlockType() BlockType { return BlockParagraph }

type CodeBlock struct {
	Info   string
	Lines  []string
	Fenced bool
}

func (CodeBlock) BlockType() BlockType { return BlockCode }

type List struct {
	Ordered bool
	Start   int
	Tight   bool
	Items   []ListItem
}

type ListItem struct {
	Blocks []Block
}

func (List) BlockType() BlockType { return BlockList }

type Blockquote struct {
	Blocks []Block
}

func (Blockquote) BlockType() BlockType { return BlockQuote }

type ThematicBreak struct{}

func (ThematicBreak) BlockType() BlockType { return BlockRule }

// HTMLBlock keeps raw block-level HTML as literal lines.
type HTMLBlock struct {
	Lines []string
}

func (HTMLBlock) BlockType() BlockType { return BlockHTML }

type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

type Table struct {
	Align  []Alignment
	Header [][]InlineNode
	Rows   [][][]InlineNode
}

func (Table) BlockType() BlockType { return BlockTable }

// Inlines returns every inline sequence of the document in order: paragraph
// and heading text plus table cells.
func (d Document) Inlines() [][]InlineNode {
	var out [][]InlineNode
	var visit func(blocks []Block)
	visit = func(blocks []Block) {
		for _, block := range blocks {
			switch b := block.(type) {
			case Heading:
				out = append(out, b.Inlines)
			case Paragraph:
				out = append(out, b.Inlines)
			case List:
				for _, item := range b.Items {
					visit(item.Blocks)
				}
			case Blockquote:
				visit(b.Blocks)
			case Table:
				out = append(out, b.Header...)
				for _, row := range b.Rows {
					out = append(out, row...)
				}
			}
		}
	}
	visit(d.Blocks)
	return out
}

// AllInlines flattens Inlines into one sequence, suitable as a resolution
// key for image loading.
func (d Document) AllInlines() []InlineNode {
	var all []InlineNode
	for _, seq := range d.Inlines() {
		all = append(all, seq...)
	}
	return all
}
