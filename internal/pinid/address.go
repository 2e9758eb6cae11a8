package pinid

import "strings"

// String serializes the Address into its canonical string representation.
func (a Address) String() string {
	var sb strings.Builder
	sb.WriteString(a.Node)
	sb.WriteRune(':')
	sb.WriteString(a.Dir.Marker())
	sb.WriteString(a.Slot)
	return sb.String()
}

// Equal checks for equality between two addresses.
func (a Address) Equal(other Address) bool {
	return a == other
}
