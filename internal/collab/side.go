package collab

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/linemark/internal/deferred"
	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/engine/block"
	"github.com/dshills/linemark/internal/engine/burst"
	"github.com/dshills/linemark/internal/engine/projection"
	"github.com/dshills/linemark/internal/engine/reconcile"
	"github.com/dshills/linemark/internal/engine/reservation"
	"github.com/dshills/linemark/internal/event"
	"github.com/dshills/linemark/internal/event/events"
	"github.com/dshills/linemark/internal/logging"
)

// Side is one editor's view of the shared buffer.
//
// Thread-safety: All methods are safe for concurrent use. Each side
// serializes its own operations; cross-side data moves only by push and pull.
type Side struct {
	name     string
	author   annotation.Author
	now      func() time.Time
	notifier Notifier
	log      *slog.Logger
	timings  Timings
	initial  string
	manual   bool

	mu       sync.Mutex
	lines    []string
	local    *projection.Local
	pending  *projection.Pending
	detector *burst.Detector
	ledger   *sharedLedger
	slot     *Slot

	// set once by Connect
	peer *Side

	consolidate *deferred.Task
	reanchor    *deferred.Task
}

// NewSide creates a side named name whose edits are attributed to author.
func NewSide(name string, author annotation.Author, opts ...Option) *Side {
	s := &Side{
		name:    name,
		author:  author,
		now:     time.Now,
		log:     logging.Nop().Logger,
		timings: DefaultTimings(),
		slot:    &Slot{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.With(slog.String("side", name))
	s.lines = reconcile.SplitLines(s.initial)
	s.local = projection.NewLocal(s.now)
	s.pending = projection.NewPending()
	s.detector = burst.New(burst.WithWindow(s.timings.BurstWindow), burst.WithClock(s.now))
	s.ledger = newSharedLedger(reservation.New(reservation.WithClock(s.now)))
	taskOpts := []deferred.Option{deferred.WithClock(s.now)}
	if s.manual {
		taskOpts = append(taskOpts, deferred.Manual())
	}
	s.consolidate = deferred.New(s.timings.ConsolidateDelay, s.runConsolidate, taskOpts...)
	s.reanchor = deferred.New(s.timings.ReanchorDelay, s.runReanchor, taskOpts...)
	s.slot.Clear()
	return s
}

// Connect makes a and b peers of each other.
func Connect(a, b *Side) {
	a.mu.Lock()
	a.peer = b
	a.mu.Unlock()

	b.mu.Lock()
	b.peer = a
	b.mu.Unlock()
}

// Name returns the side's name.
func (s *Side) Name() string {
	return s.name
}

// Author returns the author the side's edits are attributed to.
func (s *Side) Author() annotation.Author {
	return s.author
}

// Slot returns the side's repository slot.
func (s *Side) Slot() *Slot {
	return s.slot
}

// Conflicts returns a read-only conflict view of the side's reservations.
func (s *Side) Conflicts() reservation.Checker {
	return s.ledger
}

// OnLineAdded records that line was inserted. The document must already
// contain it.
func (s *Side) OnLineAdded(line int) {
	s.onLine(line, annotation.Added)
}

// OnLineEdited records that line was modified. The document must already
// hold its new content.
func (s *Side) OnLineEdited(line int) {
	s.onLine(line, annotation.Edited)
}

func (s *Side) onLine(line int, kind annotation.ChangeKind) {
	if line < 1 {
		return
	}
	out := s.newOutbox()

	s.mu.Lock()
	deferConsolidate := s.recordLocked(out, line, kind)
	s.mu.Unlock()

	s.publish(out)
	if deferConsolidate {
		s.consolidate.Schedule()
	}
}

// recordLocked reserves line, checks the peer for a conflict and passes the
// edit through the burst detector. It returns true if consolidation must be
// scheduled. Callers hold s.mu.
func (s *Side) recordLocked(out *outbox, line int, kind annotation.ChangeKind) bool {
	if s.peer != nil {
		if c := s.peer.ledger.CheckConflict(line, s.author); c.Conflicting {
			s.log.Warn("conflicting edit",
				slog.Int("line", line),
				slog.String("reserved_by", c.Author.String()))
			out.conflict(s.name, line, s.author, c)
		}
	}
	s.ledger.reserve(line, s.author)

	content := lineAt(s.lines, line)
	res := s.detector.Observe(line, content, kind)
	if !res.IsRange {
		s.local.Record(line, s.author, kind, content)
		return true
	}

	for l := res.Start; l <= res.End; l++ {
		s.ledger.reserve(l, s.author)
	}
	before := s.local.Ranges()
	s.local.Install(annotation.NewRange(res.Start, res.End, s.author, res.Kind), res.Contents)
	gone, added := annotation.Diff(before, s.local.Ranges())
	out.ranges(s.name, gone, added)

	s.log.Debug("burst detected",
		slog.Int("start", res.Start),
		slog.Int("end", res.End),
		slog.String("kind", res.Kind.String()))
	return s.local.Pending()
}

// OnContentChanged replaces the document with text and schedules
// re-anchoring of every annotation.
func (s *Side) OnContentChanged(text string) {
	s.mu.Lock()
	s.lines = reconcile.SplitLines(text)
	s.mu.Unlock()

	s.reanchor.Schedule()
}

// InsertLine inserts content before line and records it as added.
// Lines past the end are appended. It returns the line inserted.
func (s *Side) InsertLine(line int, content string) int {
	out := s.newOutbox()

	s.mu.Lock()
	line = min(max(line, 1), len(s.lines)+1)
	s.lines = append(s.lines, "")
	copy(s.lines[line:], s.lines[line-1:])
	s.lines[line-1] = content

	gone, added := s.local.Shift(line, 1)
	out.ranges(s.name, gone, added)
	s.ledger.shift(line, 1)
	deferConsolidate := s.recordLocked(out, line, annotation.Added)
	s.mu.Unlock()

	s.publish(out)
	if deferConsolidate {
		s.consolidate.Schedule()
	}
	s.reanchor.Schedule()
	return line
}

// EditLine replaces the content of line and records it as edited.
// It returns false if line is outside the document.
func (s *Side) EditLine(line int, content string) bool {
	out := s.newOutbox()

	s.mu.Lock()
	if line < 1 || line > len(s.lines) {
		s.mu.Unlock()
		return false
	}
	s.lines[line-1] = content
	deferConsolidate := s.recordLocked(out, line, annotation.Edited)
	s.mu.Unlock()

	s.publish(out)
	if deferConsolidate {
		s.consolidate.Schedule()
	}
	return true
}

// DeleteLine removes line and the annotations on it.
// It returns false if line is outside the document.
func (s *Side) DeleteLine(line int) bool {
	out := s.newOutbox()

	s.mu.Lock()
	if line < 1 || line > len(s.lines) {
		s.mu.Unlock()
		return false
	}
	s.lines = append(s.lines[:line-1], s.lines[line:]...)
	if len(s.lines) == 0 {
		s.lines = []string{""}
	}
	gone, added := s.local.Shift(line, -1)
	out.ranges(s.name, gone, added)
	s.ledger.shift(line, -1)
	s.mu.Unlock()

	s.publish(out)
	s.reanchor.Schedule()
	return true
}

// Push publishes the side's changes to its slot and hands the resulting
// blocks to the peer. It returns false, changing nothing, when there are no
// facts to push.
func (s *Side) Push() bool {
	out := s.newOutbox()

	s.mu.Lock()
	// fold edits still waiting for the deferred consolidation, announcing
	// them before they are cleared below
	gone, added := s.local.Consolidate()
	out.ranges(s.name, gone, added)
	facts := s.local.Facts()
	if len(facts) == 0 {
		s.mu.Unlock()
		return false
	}

	blocks := block.Group(facts, s.lines)
	s.slot.store(reconcile.JoinLines(s.lines), facts, blocks)

	out.ranges(s.name, s.local.Clear(), nil)
	s.ledger.clear()
	s.detector.Reset()
	peer := s.peer
	out.add(event.NewEvent(events.TopicRepositoryPushed, events.RepositoryPushed{
		Side:   s.name,
		Facts:  len(facts),
		Blocks: len(blocks),
	}, s.name))
	s.mu.Unlock()

	s.consolidate.Cancel()
	s.log.Info("pushed", slog.Int("facts", len(facts)), slog.Int("blocks", len(blocks)))
	s.publish(out)

	if peer != nil {
		peer.receive(blocks)
	}
	return true
}

// receive adds blocks pushed by the peer as pending blocks.
func (s *Side) receive(blocks []block.Block) {
	out := s.newOutbox()

	s.mu.Lock()
	for _, b := range blocks {
		s.pending.Add(b, lineAt(s.lines, b.Start))
		out.blockCreated(s.name, b)
	}
	s.mu.Unlock()

	s.publish(out)
}

// Pull merges the peer's pushed content into the document. The side's own
// annotations, reservations and pending blocks are discarded and the peer's
// slot is cleared. It returns false when the peer has nothing to pull.
func (s *Side) Pull() bool {
	out := s.newOutbox()

	s.mu.Lock()
	if s.peer == nil {
		s.mu.Unlock()
		return false
	}
	repo := s.peer.slot.Load()
	if repo.Empty() {
		s.mu.Unlock()
		return false
	}

	s.lines = reconcile.Merge(s.lines, reconcile.SplitLines(*repo.Content))
	out.ranges(s.name, s.local.Clear(), nil)
	s.ledger.clear()
	s.detector.Reset()
	discarded := s.pending.Clear()
	for _, b := range discarded {
		out.blockRemoved(s.name, b.ID)
	}
	s.peer.slot.Clear()
	lineCount := len(s.lines)
	out.add(event.NewEvent(events.TopicRepositoryPulled, events.RepositoryPulled{
		Side:      s.name,
		Lines:     lineCount,
		Discarded: len(discarded),
	}, s.name))
	s.mu.Unlock()

	s.consolidate.Cancel()
	s.reanchor.Cancel()
	s.log.Info("pulled", slog.Int("lines", lineCount), slog.Int("discarded", len(discarded)))
	s.publish(out)
	return true
}

// SplitBlock splits the pending block id at line at. It returns false when
// the block is unknown or at does not fall strictly inside it.
func (s *Side) SplitBlock(id block.ID, at int) bool {
	out := s.newOutbox()

	s.mu.Lock()
	first, second, ok := s.pending.Split(id, at, lineAt(s.lines, at))
	if !ok {
		s.mu.Unlock()
		return false
	}
	out.blockRemoved(s.name, id)
	out.blockCreated(s.name, first)
	out.blockCreated(s.name, second)
	s.mu.Unlock()

	s.publish(out)
	return true
}

// DismissBlock drops the pending block id without pulling.
func (s *Side) DismissBlock(id block.ID) bool {
	out := s.newOutbox()

	s.mu.Lock()
	if _, ok := s.pending.Remove(id); !ok {
		s.mu.Unlock()
		return false
	}
	out.blockRemoved(s.name, id)
	s.mu.Unlock()

	s.publish(out)
	return true
}

// Flush runs any deferred consolidation or re-anchoring now.
func (s *Side) Flush() {
	s.consolidate.Flush()
	s.reanchor.Flush()
}

// RunDue runs the deferred work whose delay has elapsed by now, measured on
// the side's clock. It reports whether anything ran.
func (s *Side) RunDue(now time.Time) bool {
	ran := s.consolidate.RunDue(now)
	return s.reanchor.RunDue(now) || ran
}

// SetTimings changes the side's delays. Pending deferred work keeps its
// original deadline.
func (s *Side) SetTimings(t Timings) {
	s.mu.Lock()
	s.timings = t
	s.detector.SetWindow(t.BurstWindow)
	s.mu.Unlock()

	s.consolidate.SetDelay(t.ConsolidateDelay)
	s.reanchor.SetDelay(t.ReanchorDelay)
}

// Timings returns the side's delays.
func (s *Side) Timings() Timings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timings
}

// Close cancels deferred work.
func (s *Side) Close() {
	s.consolidate.Cancel()
	s.reanchor.Cancel()
}

func (s *Side) runConsolidate() {
	out := s.newOutbox()

	s.mu.Lock()
	gone, added := s.local.Consolidate()
	out.ranges(s.name, gone, added)
	s.mu.Unlock()

	s.publish(out)
}

func (s *Side) runReanchor() {
	out := s.newOutbox()

	s.mu.Lock()
	before := s.local.Ranges()
	lines := append([]string(nil), s.lines...)
	for _, r := range []projection.Reanchorable{s.local, s.pending} {
		r.AdjustByContent(lines)
		r.RefreshPositions(len(lines))
	}
	gone, added := annotation.Diff(before, s.local.Ranges())
	out.ranges(s.name, gone, added)
	s.mu.Unlock()

	s.publish(out)
}

// Lines returns a copy of the document.
func (s *Side) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Text returns the document as newline separated text.
func (s *Side) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reconcile.JoinLines(s.lines)
}

// View returns what the side renders: its consolidated ranges and the
// pending blocks received from the peer.
func (s *Side) View() projection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projection.Snapshot(s.local, s.pending)
}

// Facts returns the side's recorded facts in line order.
func (s *Side) Facts() []annotation.LineFact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local.Facts()
}

// Reservations returns the side's reservations in line order.
func (s *Side) Reservations() []reservation.Reservation {
	return s.ledger.all()
}

// Block returns the pending block with id.
func (s *Side) Block(id block.ID) (block.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Get(id)
}

func (s *Side) newOutbox() *outbox {
	return &outbox{source: s.name}
}

// publish delivers queued notifications. Must not be called with s.mu held.
func (s *Side) publish(out *outbox) {
	if s.notifier == nil {
		return
	}
	for _, ev := range out.queued {
		if err := s.notifier.Publish(context.Background(), ev); err != nil {
			s.log.Warn("notification failed", slog.Any("error", err))
		}
	}
}

func lineAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
