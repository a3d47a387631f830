package encode

type EncodeOption func(*EncState)

// EncodeIndent lays out element-only content n spaces per level.
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}
func EncodeComments(v bool) EncodeOption {
	return func(es *EncState) { es.comments = v }
}
func EncodeDecl(v bool) EncodeOption {
	return func(es *EncState) { es.decl = v }
}
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}
