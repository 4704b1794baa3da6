package player

import (
	"context"

	"github.com/pkg/errors"
)

// memberWorkers caps how many playlist members resolve at once. Enough to
// hide network latency without hammering the upstream API.
const memberWorkers = 4

// playBatch expands a playlist/album query. The first member is resolved
// synchronously and handed back to the caller; the remaining members resolve
// in a background task scoped to the session and are appended to the queue in
// their original list order, no matter which lookup finishes first.
// Loop-confined.
func (s *Session) playBatch(ctx context.Context, requester, query string) (PlayResult, error) {
	members, err := s.resolver.BatchMembers(ctx, query)
	if err != nil {
		return PlayResult{}, err
	}
	if len(members) == 0 {
		return PlayResult{}, &ResolutionError{Query: query, Err: errors.New("playlist has no tracks")}
	}

	first, err := s.resolver.ResolveMember(ctx, members[0], requester)
	if err != nil {
		return PlayResult{}, err
	}
	s.enqueueLocked(first)

	if len(members) > 1 {
		if s.batchCancel == nil {
			s.batchCtx, s.batchCancel = context.WithCancel(s.ctx)
		}
		s.pendingBatches++
		ctx := s.batchCtx
		go func() {
			s.resolveBatch(ctx, members[1:], requester)
			s.post(func() {
				// A cancelled batch was already accounted for by stop.
				if ctx.Err() == nil && s.pendingBatches > 0 {
					s.pendingBatches--
				}
			})
		}()
	}

	return PlayResult{Track: first, Total: len(members)}, nil
}

// resolveBatch resolves the remaining playlist members concurrently and
// merges them into the queue strictly by original index: member i is only
// appended once every member below i has been appended or skipped. A failed
// member is skipped and never aborts the batch. Cancelled by stop and leave.
func (s *Session) resolveBatch(ctx context.Context, members []BatchMember, requester string) {
	type outcome struct {
		idx   int
		track Track
		err   error
	}

	results := make(chan outcome, len(members))
	jobs := make(chan BatchMember)

	workers := memberWorkers
	if workers > len(members) {
		workers = len(members)
	}
	for i := 0; i < workers; i++ {
		go func() {
			for m := range jobs {
				t, err := s.resolver.ResolveMember(ctx, m, requester)
				results <- outcome{idx: m.Index, track: t, err: err}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, m := range members {
			select {
			case jobs <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	pending := make(map[int]outcome, len(members))
	next := members[0].Index
	applied := 0
	for applied < len(members) {
		select {
		case <-ctx.Done():
			return
		case r := <-results:
			pending[r.idx] = r
		}
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			applied++
			if r.err != nil {
				s.log.Warn().Err(r.err).Int("index", r.idx).Msg("skipping unresolvable playlist member")
				continue
			}
			track := r.track
			s.post(func() {
				// A stop may have raced the submission; drop late items.
				if ctx.Err() != nil {
					return
				}
				s.enqueueLocked(track)
			})
		}
	}
}
