package styledtext

import "github.com/rivo/uniseg"

// PerGrapheme styles every user-perceived character of s separately. fn
// receives the character index and the total count.
func PerGrapheme(s string, base Attributes, fn func(index, count int, attrs Attributes) Attributes) Text {
	count := uniseg.GraphemeClusterCount(s)
	if count == 0 {
		return Text{}
	}
	runs := make([]Run, 0, count)
	gr := uniseg.NewGraphemes(s)
	for i := 0; gr.Next(); i++ {
		attrs := base
		if fn != nil {
			attrs = fn(i, count, base)
		}
		runs = append(runs, Run{Text: gr.Str(), Attrs: attrs})
	}
	return FromRuns(runs...)
}
