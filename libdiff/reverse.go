package libdiff

// Reverse returns the diff from the insert side back to the delete side.
func Reverse(lines []Line) []Line {
	res := make([]Line, len(lines))
	for i, l := range lines {
		switch l.Op {
		case Insert:
			l.Op = Delete
		case Delete:
			l.Op = Insert
		}
		res[i] = l
	}
	return res
}
