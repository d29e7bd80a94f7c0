package ir

// TriggerConfig tells the host when to run a spell.
// It is replaced as a whole on every write.
type TriggerConfig struct {
	Clock       ClockConfig          `json:"clock" yaml:"clock"`
	Connections ConnectionPoolConfig `json:"connections" yaml:"connections"`
	Blockchain  BlockChainConfig     `json:"blockchain" yaml:"blockchain"`
}

// ClockConfig triggers a spell periodically.
type ClockConfig struct {
	// StartSec is the Unix time to start at. 0 means "do not run".
	StartSec uint32 `json:"start_sec" yaml:"start_sec"`
	// EndSec is the Unix time to stop at. 0 means "never stop".
	EndSec uint32 `json:"end_sec" yaml:"end_sec"`
	// PeriodSec is the period between runs. 0 means "do not subscribe".
	PeriodSec uint32 `json:"period_sec" yaml:"period_sec"`
}

// ConnectionPoolConfig triggers a spell on peer connection events.
type ConnectionPoolConfig struct {
	Connect    bool `json:"connect" yaml:"connect"`
	Disconnect bool `json:"disconnect" yaml:"disconnect"`
}

// BlockChainConfig triggers a spell on new blocks.
type BlockChainConfig struct {
	// StartBlock is the first block to trigger on. 0 means "do not subscribe".
	StartBlock uint32 `json:"start_block" yaml:"start_block"`
	// EndBlock is the last block to trigger on. 0 means "never stop".
	EndBlock uint32 `json:"end_block" yaml:"end_block"`
}
