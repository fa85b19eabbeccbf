package templates

// rowClass alternates table row shading and highlights totals.
func rowClass(i int, emphasis bool) string {
	switch {
	case emphasis:
		return "total"
	case i%2 == 0:
		return "even"
	}
	return "odd"
}
