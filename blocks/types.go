package blocks

// Block is the top-level trace payload for one executed block.
type Block struct {
	Ver               int32
	Hash              []byte
	Number            uint64
	ByteSize          uint64
	Header            *BlockHeader
	Uncles            []*BlockHeader
	TransactionTraces []*TransactionTrace
	BalanceChanges    []*BalanceChange
}

// BlockHeader mirrors the consensus header. Post-Cancun blob fields are
// optional: a nil pointer means the field was absent on the wire, which is
// how pre-fork headers travel.
type BlockHeader struct {
	ParentHash       []byte
	UncleHash        []byte
	Coinbase         []byte
	StateRoot        []byte
	TransactionsRoot []byte
	ReceiptRoot      []byte
	LogsBloom        []byte
	Difficulty       *BigInt
	Number           uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	ExtraData        []byte
	MixHash          []byte
	Nonce            uint64
	Hash             []byte
	BaseFeePerGas    *BigInt
	WithdrawalsRoot  []byte
	BlobGasUsed      *uint64
	ExcessBlobGas    *uint64
	ParentBeaconRoot []byte
}

// BigInt carries an arbitrary-precision unsigned integer as big-endian bytes.
type BigInt struct {
	Bytes []byte
}

// TransactionTrace is one executed transaction with its full call tree.
type TransactionTrace struct {
	To           []byte
	Nonce        uint64
	GasPrice     *BigInt
	GasLimit     uint64
	Value        *BigInt
	Input        []byte
	GasUsed      uint64
	Type         int32
	Index        uint32
	Hash         []byte
	From         []byte
	ReturnData   []byte
	BeginOrdinal uint64
	EndOrdinal   uint64
	Status       TransactionTraceStatus
	Receipt      *TransactionReceipt
	Calls        []*Call

	// Indexes into Calls of every call whose state was rolled back,
	// packed on the wire.
	RevertedCallIndexes []uint64
}

// TransactionReceipt is the post-execution receipt.
type TransactionReceipt struct {
	StateRoot         []byte
	CumulativeGasUsed uint64
	LogsBloom         []byte
	Logs              []*Log
	BlobGasUsed       *uint64
	BlobGasPrice      *BigInt
}

// Log is one emitted event log.
type Log struct {
	Address    []byte
	Topics     [][]byte
	Data       []byte
	Index      uint32
	BlockIndex uint32
	Ordinal    uint64
}

// Call is one node of the execution call tree. Index 0 is the root call;
// ParentIndex links children to parents.
type Call struct {
	Index           uint32
	ParentIndex     uint32
	Depth           uint32
	CallType        CallType
	Caller          []byte
	Address         []byte
	Value           *BigInt
	GasLimit        uint64
	GasConsumed     uint64
	StatusFailed    bool
	FailureReason   string
	StatusReverted  bool
	ReturnData      []byte
	Input           []byte
	ExecutedCode    bool
	Suicide         bool
	KeccakPreimages map[string]string
	StorageChanges  []*StorageChange
	BalanceChanges  []*BalanceChange
	NonceChanges    []*NonceChange
	Logs            []*Log
	GasChanges      []*GasChange
	StateReverted   bool
	BeginOrdinal    uint64
	EndOrdinal      uint64
}

// BalanceChange records one account balance transition.
type BalanceChange struct {
	Address  []byte
	OldValue *BigInt
	NewValue *BigInt
	Reason   BalanceChangeReason
	Ordinal  uint64
}

// StorageChange records one storage slot write.
type StorageChange struct {
	Address  []byte
	Key      []byte
	OldValue []byte
	NewValue []byte
	Ordinal  uint64
}

// NonceChange records one account nonce transition.
type NonceChange struct {
	Address  []byte
	OldValue uint64
	NewValue uint64
	Ordinal  uint64
}

// GasChange records one gas counter transition within a call.
type GasChange struct {
	OldValue uint64
	NewValue uint64
	Reason   GasChangeReason
	Ordinal  uint64
}

// TransactionTraceStatus is the terminal status of a traced transaction.
type TransactionTraceStatus int32

const (
	TransactionStatusUnknown   TransactionTraceStatus = 0
	TransactionStatusSucceeded TransactionTraceStatus = 1
	TransactionStatusFailed    TransactionTraceStatus = 2
	TransactionStatusReverted  TransactionTraceStatus = 3
)

func (s TransactionTraceStatus) String() string {
	switch s {
	case TransactionStatusSucceeded:
		return "SUCCEEDED"
	case TransactionStatusFailed:
		return "FAILED"
	case TransactionStatusReverted:
		return "REVERTED"
	default:
		return "UNKNOWN"
	}
}

// CallType distinguishes the EVM operation that created a call.
type CallType int32

const (
	CallTypeUnspecified CallType = 0
	CallTypeCall        CallType = 1
	CallTypeCallcode    CallType = 2
	CallTypeDelegate    CallType = 3
	CallTypeStatic      CallType = 4
	CallTypeCreate      CallType = 5
)

func (c CallType) String() string {
	switch c {
	case CallTypeCall:
		return "CALL"
	case CallTypeCallcode:
		return "CALLCODE"
	case CallTypeDelegate:
		return "DELEGATE"
	case CallTypeStatic:
		return "STATIC"
	case CallTypeCreate:
		return "CREATE"
	default:
		return "UNSPECIFIED"
	}
}

// BalanceChangeReason explains why a balance moved.
type BalanceChangeReason int32

const (
	BalanceChangeReasonUnknown          BalanceChangeReason = 0
	BalanceChangeReasonRewardMineUncle  BalanceChangeReason = 1
	BalanceChangeReasonRewardMineBlock  BalanceChangeReason = 2
	BalanceChangeReasonTransfer         BalanceChangeReason = 3
	BalanceChangeReasonGasBuy           BalanceChangeReason = 4
	BalanceChangeReasonGasRefund        BalanceChangeReason = 5
	BalanceChangeReasonRewardFeeReset   BalanceChangeReason = 6
	BalanceChangeReasonSuicideRefund    BalanceChangeReason = 7
	BalanceChangeReasonSuicideWithdraw  BalanceChangeReason = 8
	BalanceChangeReasonBurn             BalanceChangeReason = 9
	BalanceChangeReasonWithdrawal       BalanceChangeReason = 10
)

// GasChangeReason explains why a gas counter moved.
type GasChangeReason int32

const (
	GasChangeReasonUnknown              GasChangeReason = 0
	GasChangeReasonCall                 GasChangeReason = 1
	GasChangeReasonIntrinsicGas         GasChangeReason = 2
	GasChangeReasonRefundAfterExecution GasChangeReason = 3
	GasChangeReasonCallCode             GasChangeReason = 4
	GasChangeReasonDelegateCall         GasChangeReason = 5
	GasChangeReasonStaticCall           GasChangeReason = 6
	GasChangeReasonContractCreation     GasChangeReason = 7
	GasChangeReasonReturn               GasChangeReason = 8
	GasChangeReasonFailedExecution      GasChangeReason = 9
)
