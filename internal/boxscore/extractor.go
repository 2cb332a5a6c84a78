package boxscore

import "errors"

// ErrIdentityNotFound marks a player whose row or link could not be located
// anywhere in a started game's document. Callers skip that player for the
// pass and leave their points unchanged.
var ErrIdentityNotFound = errors.New("player identity not found in document")

// Extractor pulls one player's raw counting stats out of a fetched
// DocumentPair. Both backends tolerate games that have not started and
// never fail on absent optional structure.
type Extractor interface {
	Extract(pair *DocumentPair, id Identity) (StatLine, error)
}

// NewExtractor selects the backend by capability: the feed backend when a
// structured event feed is available for the game, else the tree backend.
func NewExtractor(pair *DocumentPair) Extractor {
	if pair.HasFeed() {
		return feedExtractor{}
	}
	return treeExtractor{}
}
