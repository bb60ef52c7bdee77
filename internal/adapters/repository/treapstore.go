package repository

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/domain/types"
	"github.com/runsight/crossover/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Hotspot ordering: participants DESC, then segmentID ASC. "less" means
// ranks earlier, so an in-order traversal yields the hotspot list from
// busiest segment to quietest. Node priorities are derived from the
// segment id hash, which keeps the tree shape deterministic for a given
// key set.

// node is one treap entry, size-augmented for O(log n) rank queries.
type node struct {
	id    string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aScore, aID) ranks earlier than (bScore, bID).
func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func priorityFor(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(root *node, n *node) *node {
	if root == nil {
		n.size = 1
		return n
	}
	if less(n.score, n.id, root.score, root.id) {
		root.left = insert(root.left, n)
		if root.left.prio > root.prio {
			root = rotateRight(root)
		}
	} else {
		root.right = insert(root.right, n)
		if root.right.prio > root.prio {
			root = rotateLeft(root)
		}
	}
	fix(root)
	return root
}

func remove(root *node, score int, id string) *node {
	if root == nil {
		return nil
	}
	switch {
	case score == root.score && id == root.id:
		if root.left == nil {
			return root.right
		}
		if root.right == nil {
			return root.left
		}
		if root.left.prio > root.right.prio {
			root = rotateRight(root)
			root.right = remove(root.right, score, id)
		} else {
			root = rotateLeft(root)
			root.left = remove(root.left, score, id)
		}
	case less(score, id, root.score, root.id):
		root.left = remove(root.left, score, id)
	default:
		root.right = remove(root.right, score, id)
	}
	fix(root)
	return root
}

// rankOf returns the 1-based rank of (score, id), or 0 when absent.
func rankOf(root *node, score int, id string) int {
	rank := 1
	for root != nil {
		switch {
		case score == root.score && id == root.id:
			return rank + nsize(root.left)
		case less(score, id, root.score, root.id):
			root = root.left
		default:
			rank += nsize(root.left) + 1
			root = root.right
		}
	}
	return 0
}

// walkInOrder visits nodes rank-first until fn returns false.
func walkInOrder(root *node, fn func(*node) bool) bool {
	if root == nil {
		return true
	}
	if !walkInOrder(root.left, fn) {
		return false
	}
	if !fn(root) {
		return false
	}
	return walkInOrder(root.right, fn)
}

// hotspotMeta carries the display fields for one indexed segment.
type hotspotMeta struct {
	score      int
	label      string
	encounters int
}

// TreapStore implements Store in memory.
type TreapStore struct {
	mu      sync.RWMutex
	runs    map[string]model.RunResult
	order   []string // run ids, oldest first
	maxRuns int

	root *node
	meta map[string]hotspotMeta
}

// NewTreapStore creates an empty store.
func NewTreapStore(_ context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		runs:    make(map[string]model.RunResult),
		maxRuns: 50,
		meta:    make(map[string]hotspotMeta),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutRun stores a run and refreshes the hotspot index from it. The
// index always reflects the most recent run; superseded entries for the
// same segment are replaced.
func (s *TreapStore) PutRun(_ context.Context, run model.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.RunID]; !ok {
		s.order = append(s.order, run.RunID)
	}
	s.runs[run.RunID] = run

	for len(s.order) > s.maxRuns {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, oldest)
	}

	for _, seg := range run.Segments {
		if old, ok := s.meta[seg.SegmentID]; ok {
			s.root = remove(s.root, old.score, seg.SegmentID)
		}
		m := hotspotMeta{
			score:      seg.Overlap.ParticipantsInvolved,
			label:      seg.Label,
			encounters: seg.Overlap.UniqueEncounters,
		}
		s.meta[seg.SegmentID] = m
		s.root = insert(s.root, &node{
			id:    seg.SegmentID,
			score: m.score,
			prio:  priorityFor(seg.SegmentID),
		})
	}

	metrics.UpdateStoredRuns(len(s.runs))
	metrics.UpdateHotspotRecords(len(s.meta))
	return nil
}

// GetRun returns a stored run by id.
func (s *TreapStore) GetRun(_ context.Context, runID string) (model.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return model.RunResult{}, ErrNotFound
	}
	return run, nil
}

// LatestRun returns the most recently stored run.
func (s *TreapStore) LatestRun(_ context.Context) (model.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return model.RunResult{}, ErrNotFound
	}
	return s.runs[s.order[len(s.order)-1]], nil
}

// TopHotspots returns the top-N segments by participants involved.
func (s *TreapStore) TopHotspots(_ context.Context, n int) ([]types.Hotspot, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Hotspot, 0, n)
	walkInOrder(s.root, func(nd *node) bool {
		m := s.meta[nd.id]
		out = append(out, types.Hotspot{
			Rank:         len(out) + 1,
			SegmentID:    nd.id,
			Label:        m.label,
			Participants: m.score,
			Encounters:   m.encounters,
		})
		return len(out) < n
	})
	return out, nil
}

// HotspotRank returns the rank entry for one segment.
func (s *TreapStore) HotspotRank(_ context.Context, segmentID string) (types.Hotspot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meta[segmentID]
	if !ok {
		return types.Hotspot{}, ErrNotFound
	}
	return types.Hotspot{
		Rank:         rankOf(s.root, m.score, segmentID),
		SegmentID:    segmentID,
		Label:        m.label,
		Participants: m.score,
		Encounters:   m.encounters,
	}, nil
}

// Count returns the number of stored runs.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
