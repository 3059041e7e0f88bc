package blocks

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Typed accessors over the raw byte fields. The wire layer keeps everything
// as []byte; these convert to go-ethereum's hash, address, and big.Int types
// at the edges where callers want them.

// Native returns the value as a big.Int. A nil or empty BigInt is zero.
func (b *BigInt) Native() *big.Int {
	if b == nil || len(b.Bytes) == 0 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(b.Bytes)
}

// NewBigInt builds a BigInt from a big.Int. Nil and zero both collapse to an
// empty byte field so they vanish from the encoded output.
func NewBigInt(v *big.Int) *BigInt {
	if v == nil || v.Sign() == 0 {
		return &BigInt{}
	}
	return &BigInt{Bytes: v.Bytes()}
}

// Hex renders the value as a 0x-prefixed hex quantity.
func (b *BigInt) Hex() string {
	return hexutil.EncodeBig(b.Native())
}

func (b *Block) HashAsHash() common.Hash { return common.BytesToHash(b.Hash) }

func (h *BlockHeader) ParentHashAsHash() common.Hash { return common.BytesToHash(h.ParentHash) }
func (h *BlockHeader) CoinbaseAsAddress() common.Address {
	return common.BytesToAddress(h.Coinbase)
}
func (h *BlockHeader) StateRootAsHash() common.Hash { return common.BytesToHash(h.StateRoot) }
func (h *BlockHeader) HashAsHash() common.Hash      { return common.BytesToHash(h.Hash) }

func (t *TransactionTrace) HashAsHash() common.Hash      { return common.BytesToHash(t.Hash) }
func (t *TransactionTrace) FromAsAddress() common.Address { return common.BytesToAddress(t.From) }

// ToAsAddress returns the recipient. Contract creations have no recipient;
// ok reports whether one was set.
func (t *TransactionTrace) ToAsAddress() (common.Address, bool) {
	if len(t.To) == 0 {
		return common.Address{}, false
	}
	return common.BytesToAddress(t.To), true
}

func (l *Log) AddressAsAddress() common.Address { return common.BytesToAddress(l.Address) }

// TopicsAsHashes converts every topic to a fixed-width hash.
func (l *Log) TopicsAsHashes() []common.Hash {
	out := make([]common.Hash, len(l.Topics))
	for i, t := range l.Topics {
		out[i] = common.BytesToHash(t)
	}
	return out
}

func (c *Call) CallerAsAddress() common.Address  { return common.BytesToAddress(c.Caller) }
func (c *Call) AddressAsAddress() common.Address { return common.BytesToAddress(c.Address) }

func (b *BalanceChange) AddressAsAddress() common.Address {
	return common.BytesToAddress(b.Address)
}

func (s *StorageChange) KeyAsHash() common.Hash { return common.BytesToHash(s.Key) }
