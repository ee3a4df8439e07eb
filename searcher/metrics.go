package searcher

// Stats counts the work done by one top-level search. It is owned by that
// search and must not be shared between concurrent searches.
type Stats struct {
	NodesExpanded int64
	NodesPruned   int64
}

func (s *Stats) Reset() {
	s.NodesExpanded = 0
	s.NodesPruned = 0
}

func (s *Stats) addNode() {
	s.NodesExpanded++
}

func (s *Stats) addPruned(n int) {
	s.NodesPruned += int64(n)
}
