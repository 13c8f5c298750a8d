package state

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Commit describes a finished gesture. It is handed to Board.OnCommit and not
// retained by the board.
type Commit struct {
	ID       string
	Seq      uint64
	Tool     Tool
	At       time.Time
	Snapshot Snapshot
}

// sequencer numbers the commits of one board.
type sequencer struct {
	n atomic.Uint64
}

func (s *sequencer) next() uint64 {
	return s.n.Add(1)
}

func (b *Board) commit(tool Tool) {
	seq := b.seq.next()
	b.log.Debug("gesture committed", "tool", tool.String(), "seq", seq)
	if b.OnCommit == nil {
		return
	}
	b.OnCommit(Commit{
		ID:       uuid.NewString(),
		Seq:      seq,
		Tool:     tool,
		At:       time.Now(),
		Snapshot: capture(b.img, b.compress),
	})
}
