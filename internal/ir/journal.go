package ir

// NOTE: journal rows carry store-assigned ids and timestamps; callers never set them.

// Log is one entry of the log journal.
type Log struct {
	Timestamp uint64 `json:"timestamp"` // Unix seconds
	Message   string `json:"message"`
}

// MailboxMessage is one entry of the mailbox journal.
type MailboxMessage struct {
	InitPeerID string `json:"init_peer_id"` // Caller that pushed the message
	Timestamp  uint64 `json:"timestamp"`    // Unix seconds
	Message    string `json:"message"`
}

// LastError is the error a script reports for a failed instruction.
type LastError struct {
	ErrorCode   uint32 `json:"error_code"`
	Instruction string `json:"instruction"`
	Message     string `json:"message"`
	PeerID      string `json:"peer_id"`
}

// LastErrorEntry is a stored error together with the script-assigned index.
type LastErrorEntry struct {
	LastError LastError `json:"last_error"`
	ErrorIdx  uint32    `json:"error_idx"`
}

// ParticleErrors groups the errors reported by one particle.
type ParticleErrors struct {
	ParticleID string           `json:"particle_id"`
	Errors     []LastErrorEntry `json:"errors"`
}
