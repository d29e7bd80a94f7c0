package spell

import (
	"context"

	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/store"
)

const (
	OpStoreLog     = "store_log"
	OpGetLogs      = "get_logs"
	OpPushMailbox  = "push_mailbox"
	OpGetMailbox   = "get_mailbox"
	OpPopMailbox   = "pop_mailbox"
	OpStoreError   = "store_error"
	OpGetErrors    = "get_errors"
	OpGetAllErrors = "get_all_errors"
)

// StoreLog appends message to the log journal. Spell only.
func (s *Service) StoreLog(ctx context.Context, cc ir.CallContext, message string) Result[Unit] {
	if err := s.requireSpell(OpStoreLog, cc); err != nil {
		return fail[Unit](s, OpStoreLog, err)
	}
	n, err := s.store.AppendLog(ctx, message)
	if err == nil {
		s.evicted(store.JournalLogs, n)
	}
	return done(s, OpStoreLog, Unit{}, err)
}

// GetLogs returns the log journal, oldest first.
func (s *Service) GetLogs(ctx context.Context, _ ir.CallContext) Result[[]ir.Log] {
	v, err := s.store.Logs(ctx)
	return done(s, OpGetLogs, v, err)
}

// PushMailbox leaves message in the mailbox, signed with the caller's peer id.
// Open to every caller.
func (s *Service) PushMailbox(ctx context.Context, cc ir.CallContext, message string) Result[Unit] {
	n, err := s.store.PushMailbox(ctx, cc.CallerPeerID, message)
	if err == nil {
		s.evicted(store.JournalMailbox, n)
	}
	return done(s, OpPushMailbox, Unit{}, err)
}

// GetMailbox returns all messages, newest first.
func (s *Service) GetMailbox(ctx context.Context, _ ir.CallContext) Result[[]ir.MailboxMessage] {
	v, err := s.store.Mailbox(ctx)
	return done(s, OpGetMailbox, v, err)
}

// PopMailbox removes and returns the newest message. Spell only.
func (s *Service) PopMailbox(ctx context.Context, cc ir.CallContext) Result[ir.MailboxMessage] {
	if err := s.requireSpell(OpPopMailbox, cc); err != nil {
		return fail[ir.MailboxMessage](s, OpPopMailbox, err)
	}
	v, ok, err := s.store.PopMailbox(ctx)
	return lookup(s, OpPopMailbox, v, ok, err)
}

// StoreError records an error the spell hit while running the current
// particle. Spell only.
func (s *Service) StoreError(ctx context.Context, cc ir.CallContext, e ir.LastError, errorIdx uint32, particleTimestamp uint64) Result[Unit] {
	if err := s.requireSpell(OpStoreError, cc); err != nil {
		return fail[Unit](s, OpStoreError, err)
	}
	n, err := s.store.AppendError(ctx, cc.ParticleID, particleTimestamp, e, errorIdx)
	if err == nil {
		s.evicted(store.JournalErrors, n)
	}
	return done(s, OpStoreError, Unit{}, err)
}

// GetErrors returns the errors recorded for particleID.
func (s *Service) GetErrors(ctx context.Context, _ ir.CallContext, particleID string) Result[[]ir.LastErrorEntry] {
	v, err := s.store.Errors(ctx, particleID)
	return done(s, OpGetErrors, v, err)
}

// GetAllErrors returns every recorded error grouped by particle, oldest first.
func (s *Service) GetAllErrors(ctx context.Context, _ ir.CallContext) Result[[]ir.ParticleErrors] {
	v, err := s.store.AllErrors(ctx)
	return done(s, OpGetAllErrors, v, err)
}
