package network

// IndexOf returns the position of the first occurrence of id in path, or -1.
func IndexOf(path []NodeID, id NodeID) int {
	for i, hop := range path {
		if hop == id {
			return i
		}
	}

	return -1
}

// RepeatedHop returns the first node that appears more than once on the
// path. Packets carry no hop counter, so a node can only find its position
// on a path that visits it once.
func RepeatedHop(path []NodeID) (NodeID, bool) {
	var seen [256]bool

	for _, hop := range path {
		if seen[hop] {
			return hop, true
		}

		seen[hop] = true
	}

	return 0, false
}

// NextHop returns the hop that follows self on the path.
func NextHop(path []NodeID, self NodeID) (NodeID, bool) {
	i := IndexOf(path, self)
	if i < 0 || i+1 >= len(path) {
		return 0, false
	}

	return path[i+1], true
}

// ReversePath returns the part of path that has been traversed up to and
// including self, in reverse order. The result starts at self and ends at
// the originator of the path. If self is not on the path, nil is returned.
func ReversePath(path []NodeID, self NodeID) []NodeID {
	i := IndexOf(path, self)
	if i < 0 {
		return nil
	}

	reversed := make([]NodeID, 0, i+1)
	for j := i; j >= 0; j-- {
		reversed = append(reversed, path[j])
	}

	return reversed
}
