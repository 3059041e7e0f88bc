package blocks

import (
	"sort"

	"github.com/blockwire/blockwire/wire"
)

// ===== FIELD HELPERS =====
// Shared by the per-type Size/EncodeTo/DecodeFrom methods. Zero-valued
// scalars, empty byte fields, and nil sub-messages are omitted entirely, per
// the proto3 default-is-absent rule; optional scalar pointers encode whenever
// non-nil, zero included.

func sizeBytes(num wire.FieldNumber, b []byte) int {
	if len(b) == 0 {
		return 0
	}
	return wire.TagSize(num) + wire.LenPrefixedSize(wire.BytesSize(b))
}

func putBytes(e *wire.Encoder, num wire.FieldNumber, b []byte) {
	if len(b) == 0 {
		return
	}
	e.WriteTag(num, wire.WireBytes)
	e.WriteVarint(uint64(len(b)))
	e.WriteBytes(b)
}

func sizeString(num wire.FieldNumber, s string) int {
	if s == "" {
		return 0
	}
	return wire.TagSize(num) + wire.LenPrefixedSize(wire.StringSize(s))
}

func putString(e *wire.Encoder, num wire.FieldNumber, s string) {
	if s == "" {
		return
	}
	e.WriteTag(num, wire.WireBytes)
	e.WriteVarint(uint64(len(s)))
	e.WriteString(s)
}

func sizeUint64(num wire.FieldNumber, v uint64) int {
	if v == 0 {
		return 0
	}
	return wire.TagSize(num) + wire.Uint64Size(v)
}

func putUint64(e *wire.Encoder, num wire.FieldNumber, v uint64) {
	if v == 0 {
		return
	}
	e.WriteTag(num, wire.WireVarint)
	e.WriteUint64(v)
}

func sizeUint32(num wire.FieldNumber, v uint32) int {
	if v == 0 {
		return 0
	}
	return wire.TagSize(num) + wire.Uint32Size(v)
}

func putUint32(e *wire.Encoder, num wire.FieldNumber, v uint32) {
	if v == 0 {
		return
	}
	e.WriteTag(num, wire.WireVarint)
	e.WriteUint32(v)
}

func sizeInt32(num wire.FieldNumber, v int32) int {
	if v == 0 {
		return 0
	}
	return wire.TagSize(num) + wire.Int32Size(v)
}

func putInt32(e *wire.Encoder, num wire.FieldNumber, v int32) {
	if v == 0 {
		return
	}
	e.WriteTag(num, wire.WireVarint)
	e.WriteInt32(v)
}

func sizeBool(num wire.FieldNumber, v bool) int {
	if !v {
		return 0
	}
	return wire.TagSize(num) + wire.BoolSize()
}

func putBool(e *wire.Encoder, num wire.FieldNumber, v bool) {
	if !v {
		return
	}
	e.WriteTag(num, wire.WireVarint)
	e.WriteBool(v)
}

func sizeOptUint64(num wire.FieldNumber, v *uint64) int {
	if v == nil {
		return 0
	}
	return wire.TagSize(num) + wire.Uint64Size(*v)
}

func putOptUint64(e *wire.Encoder, num wire.FieldNumber, v *uint64) {
	if v == nil {
		return
	}
	e.WriteTag(num, wire.WireVarint)
	e.WriteUint64(*v)
}

// sizeEmbedded accounts for one nested message of bodyLen encoded bytes.
func sizeEmbedded(num wire.FieldNumber, bodyLen int) int {
	return wire.TagSize(num) + wire.LenPrefixedSize(bodyLen)
}

// putEmbedded frames m with the length its Size pass reports, then lets it
// append its body, the single-pass framing the sizer exists for.
func putEmbedded(e *wire.Encoder, num wire.FieldNumber, m Message) {
	e.WriteTag(num, wire.WireBytes)
	e.WriteVarint(uint64(m.Size()))
	m.EncodeTo(e)
}

// readEmbedded decodes a nested message from a window of the parent buffer.
// The parent cursor lands past the window regardless of how much of it the
// child consumes, which tolerates trailing fields from newer schemas.
func readEmbedded(d *wire.Decoder, m Message) error {
	window, err := d.ReadRawBytes()
	if err != nil {
		return err
	}
	return m.DecodeFrom(wire.NewDecoder(window))
}

func sizePackedUint64(num wire.FieldNumber, vs []uint64) int {
	if len(vs) == 0 {
		return 0
	}
	body := 0
	for _, v := range vs {
		body += wire.VarintSize(v)
	}
	return wire.TagSize(num) + wire.LenPrefixedSize(body)
}

func putPackedUint64(e *wire.Encoder, num wire.FieldNumber, vs []uint64) {
	if len(vs) == 0 {
		return
	}
	body := 0
	for _, v := range vs {
		body += wire.VarintSize(v)
	}
	e.WriteTag(num, wire.WireBytes)
	e.WriteVarint(uint64(body))
	for _, v := range vs {
		e.WriteVarint(v)
	}
}

func readPackedUint64(d *wire.Decoder, vs []uint64) ([]uint64, error) {
	window, err := d.ReadRawBytes()
	if err != nil {
		return nil, err
	}
	pd := wire.NewDecoder(window)
	for !pd.AtEnd() {
		v, err := pd.ReadUint64()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

func sizeStringMap(num wire.FieldNumber, m map[string]string) int {
	n := 0
	for k, v := range m {
		entry := wire.TagSize(1) + wire.LenPrefixedSize(len(k)) +
			wire.TagSize(2) + wire.LenPrefixedSize(len(v))
		n += wire.TagSize(num) + wire.LenPrefixedSize(entry)
	}
	return n
}

// putStringMap emits one entry message per key, sorted for deterministic
// output.
func putStringMap(e *wire.Encoder, num wire.FieldNumber, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := m[k]
		entry := wire.TagSize(1) + wire.LenPrefixedSize(len(k)) +
			wire.TagSize(2) + wire.LenPrefixedSize(len(v))
		e.WriteTag(num, wire.WireBytes)
		e.WriteVarint(uint64(entry))
		e.WriteTag(1, wire.WireBytes)
		e.WriteVarint(uint64(len(k)))
		e.WriteString(k)
		e.WriteTag(2, wire.WireBytes)
		e.WriteVarint(uint64(len(v)))
		e.WriteString(v)
	}
}

func readStringMapEntry(d *wire.Decoder, m map[string]string) (map[string]string, error) {
	window, err := d.ReadRawBytes()
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]string)
	}

	var key, value string
	ed := wire.NewDecoder(window)
	for !ed.AtEnd() {
		tag, err := ed.ReadTag()
		if err != nil {
			return nil, err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			key, err = ed.ReadString()
		case 2:
			value, err = ed.ReadString()
		default:
			err = ed.SkipField(wt)
		}
		if err != nil {
			return nil, err
		}
	}
	m[key] = value
	return m, nil
}

// ===== Block =====

func (b *Block) Size() int {
	n := sizeInt32(1, b.Ver) +
		sizeBytes(2, b.Hash) +
		sizeUint64(3, b.Number) +
		sizeUint64(4, b.ByteSize)
	if b.Header != nil {
		n += sizeEmbedded(5, b.Header.Size())
	}
	for _, u := range b.Uncles {
		n += sizeEmbedded(6, u.Size())
	}
	for _, t := range b.TransactionTraces {
		n += sizeEmbedded(10, t.Size())
	}
	for _, c := range b.BalanceChanges {
		n += sizeEmbedded(11, c.Size())
	}
	return n
}

func (b *Block) EncodeTo(e *wire.Encoder) {
	putInt32(e, 1, b.Ver)
	putBytes(e, 2, b.Hash)
	putUint64(e, 3, b.Number)
	putUint64(e, 4, b.ByteSize)
	if b.Header != nil {
		putEmbedded(e, 5, b.Header)
	}
	for _, u := range b.Uncles {
		putEmbedded(e, 6, u)
	}
	for _, t := range b.TransactionTraces {
		putEmbedded(e, 10, t)
	}
	for _, c := range b.BalanceChanges {
		putEmbedded(e, 11, c)
	}
}

func (b *Block) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			b.Ver, err = d.ReadInt32()
		case 2:
			b.Hash, err = d.ReadBytes()
		case 3:
			b.Number, err = d.ReadUint64()
		case 4:
			b.ByteSize, err = d.ReadUint64()
		case 5:
			b.Header = new(BlockHeader)
			err = readEmbedded(d, b.Header)
		case 6:
			u := new(BlockHeader)
			if err = readEmbedded(d, u); err == nil {
				b.Uncles = append(b.Uncles, u)
			}
		case 10:
			t := new(TransactionTrace)
			if err = readEmbedded(d, t); err == nil {
				b.TransactionTraces = append(b.TransactionTraces, t)
			}
		case 11:
			c := new(BalanceChange)
			if err = readEmbedded(d, c); err == nil {
				b.BalanceChanges = append(b.BalanceChanges, c)
			}
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== BlockHeader =====

func (h *BlockHeader) Size() int {
	n := sizeBytes(1, h.ParentHash) +
		sizeBytes(2, h.UncleHash) +
		sizeBytes(3, h.Coinbase) +
		sizeBytes(4, h.StateRoot) +
		sizeBytes(5, h.TransactionsRoot) +
		sizeBytes(6, h.ReceiptRoot) +
		sizeBytes(7, h.LogsBloom) +
		sizeUint64(9, h.Number) +
		sizeUint64(10, h.GasLimit) +
		sizeUint64(11, h.GasUsed) +
		sizeUint64(12, h.Timestamp) +
		sizeBytes(13, h.ExtraData) +
		sizeBytes(14, h.MixHash) +
		sizeUint64(15, h.Nonce) +
		sizeBytes(16, h.Hash) +
		sizeBytes(19, h.WithdrawalsRoot) +
		sizeOptUint64(22, h.BlobGasUsed) +
		sizeOptUint64(23, h.ExcessBlobGas) +
		sizeBytes(24, h.ParentBeaconRoot)
	if h.Difficulty != nil {
		n += sizeEmbedded(8, h.Difficulty.Size())
	}
	if h.BaseFeePerGas != nil {
		n += sizeEmbedded(18, h.BaseFeePerGas.Size())
	}
	return n
}

func (h *BlockHeader) EncodeTo(e *wire.Encoder) {
	putBytes(e, 1, h.ParentHash)
	putBytes(e, 2, h.UncleHash)
	putBytes(e, 3, h.Coinbase)
	putBytes(e, 4, h.StateRoot)
	putBytes(e, 5, h.TransactionsRoot)
	putBytes(e, 6, h.ReceiptRoot)
	putBytes(e, 7, h.LogsBloom)
	if h.Difficulty != nil {
		putEmbedded(e, 8, h.Difficulty)
	}
	putUint64(e, 9, h.Number)
	putUint64(e, 10, h.GasLimit)
	putUint64(e, 11, h.GasUsed)
	putUint64(e, 12, h.Timestamp)
	putBytes(e, 13, h.ExtraData)
	putBytes(e, 14, h.MixHash)
	putUint64(e, 15, h.Nonce)
	putBytes(e, 16, h.Hash)
	if h.BaseFeePerGas != nil {
		putEmbedded(e, 18, h.BaseFeePerGas)
	}
	putBytes(e, 19, h.WithdrawalsRoot)
	putOptUint64(e, 22, h.BlobGasUsed)
	putOptUint64(e, 23, h.ExcessBlobGas)
	putBytes(e, 24, h.ParentBeaconRoot)
}

func (h *BlockHeader) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			h.ParentHash, err = d.ReadBytes()
		case 2:
			h.UncleHash, err = d.ReadBytes()
		case 3:
			h.Coinbase, err = d.ReadBytes()
		case 4:
			h.StateRoot, err = d.ReadBytes()
		case 5:
			h.TransactionsRoot, err = d.ReadBytes()
		case 6:
			h.ReceiptRoot, err = d.ReadBytes()
		case 7:
			h.LogsBloom, err = d.ReadBytes()
		case 8:
			h.Difficulty = new(BigInt)
			err = readEmbedded(d, h.Difficulty)
		case 9:
			h.Number, err = d.ReadUint64()
		case 10:
			h.GasLimit, err = d.ReadUint64()
		case 11:
			h.GasUsed, err = d.ReadUint64()
		case 12:
			h.Timestamp, err = d.ReadUint64()
		case 13:
			h.ExtraData, err = d.ReadBytes()
		case 14:
			h.MixHash, err = d.ReadBytes()
		case 15:
			h.Nonce, err = d.ReadUint64()
		case 16:
			h.Hash, err = d.ReadBytes()
		case 18:
			h.BaseFeePerGas = new(BigInt)
			err = readEmbedded(d, h.BaseFeePerGas)
		case 19:
			h.WithdrawalsRoot, err = d.ReadBytes()
		case 22:
			var v uint64
			if v, err = d.ReadUint64(); err == nil {
				h.BlobGasUsed = &v
			}
		case 23:
			var v uint64
			if v, err = d.ReadUint64(); err == nil {
				h.ExcessBlobGas = &v
			}
		case 24:
			h.ParentBeaconRoot, err = d.ReadBytes()
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== BigInt =====

func (b *BigInt) Size() int {
	return sizeBytes(1, b.Bytes)
}

func (b *BigInt) EncodeTo(e *wire.Encoder) {
	putBytes(e, 1, b.Bytes)
}

func (b *BigInt) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			b.Bytes, err = d.ReadBytes()
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== TransactionTrace =====

func (t *TransactionTrace) Size() int {
	n := sizeBytes(1, t.To) +
		sizeUint64(2, t.Nonce) +
		sizeUint64(4, t.GasLimit) +
		sizeBytes(6, t.Input) +
		sizeUint64(10, t.GasUsed) +
		sizeInt32(12, t.Type) +
		sizeUint32(20, t.Index) +
		sizeBytes(21, t.Hash) +
		sizeBytes(22, t.From) +
		sizeBytes(23, t.ReturnData) +
		sizeUint64(25, t.BeginOrdinal) +
		sizeUint64(26, t.EndOrdinal) +
		sizeInt32(30, int32(t.Status)) +
		sizePackedUint64(33, t.RevertedCallIndexes)
	if t.GasPrice != nil {
		n += sizeEmbedded(3, t.GasPrice.Size())
	}
	if t.Value != nil {
		n += sizeEmbedded(5, t.Value.Size())
	}
	if t.Receipt != nil {
		n += sizeEmbedded(31, t.Receipt.Size())
	}
	for _, c := range t.Calls {
		n += sizeEmbedded(32, c.Size())
	}
	return n
}

func (t *TransactionTrace) EncodeTo(e *wire.Encoder) {
	putBytes(e, 1, t.To)
	putUint64(e, 2, t.Nonce)
	if t.GasPrice != nil {
		putEmbedded(e, 3, t.GasPrice)
	}
	putUint64(e, 4, t.GasLimit)
	if t.Value != nil {
		putEmbedded(e, 5, t.Value)
	}
	putBytes(e, 6, t.Input)
	putUint64(e, 10, t.GasUsed)
	putInt32(e, 12, t.Type)
	putUint32(e, 20, t.Index)
	putBytes(e, 21, t.Hash)
	putBytes(e, 22, t.From)
	putBytes(e, 23, t.ReturnData)
	putUint64(e, 25, t.BeginOrdinal)
	putUint64(e, 26, t.EndOrdinal)
	putInt32(e, 30, int32(t.Status))
	if t.Receipt != nil {
		putEmbedded(e, 31, t.Receipt)
	}
	for _, c := range t.Calls {
		putEmbedded(e, 32, c)
	}
	putPackedUint64(e, 33, t.RevertedCallIndexes)
}

func (t *TransactionTrace) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			t.To, err = d.ReadBytes()
		case 2:
			t.Nonce, err = d.ReadUint64()
		case 3:
			t.GasPrice = new(BigInt)
			err = readEmbedded(d, t.GasPrice)
		case 4:
			t.GasLimit, err = d.ReadUint64()
		case 5:
			t.Value = new(BigInt)
			err = readEmbedded(d, t.Value)
		case 6:
			t.Input, err = d.ReadBytes()
		case 10:
			t.GasUsed, err = d.ReadUint64()
		case 12:
			t.Type, err = d.ReadInt32()
		case 20:
			t.Index, err = d.ReadUint32()
		case 21:
			t.Hash, err = d.ReadBytes()
		case 22:
			t.From, err = d.ReadBytes()
		case 23:
			t.ReturnData, err = d.ReadBytes()
		case 25:
			t.BeginOrdinal, err = d.ReadUint64()
		case 26:
			t.EndOrdinal, err = d.ReadUint64()
		case 30:
			var v int32
			if v, err = d.ReadInt32(); err == nil {
				t.Status = TransactionTraceStatus(v)
			}
		case 31:
			t.Receipt = new(TransactionReceipt)
			err = readEmbedded(d, t.Receipt)
		case 32:
			c := new(Call)
			if err = readEmbedded(d, c); err == nil {
				t.Calls = append(t.Calls, c)
			}
		case 33:
			// Accepts both the packed block and the older one-tag-per-element
			// form.
			if wt == wire.WireBytes {
				t.RevertedCallIndexes, err = readPackedUint64(d, t.RevertedCallIndexes)
			} else {
				var v uint64
				if v, err = d.ReadUint64(); err == nil {
					t.RevertedCallIndexes = append(t.RevertedCallIndexes, v)
				}
			}
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== TransactionReceipt =====

func (r *TransactionReceipt) Size() int {
	n := sizeBytes(1, r.StateRoot) +
		sizeUint64(2, r.CumulativeGasUsed) +
		sizeBytes(3, r.LogsBloom) +
		sizeOptUint64(5, r.BlobGasUsed)
	for _, l := range r.Logs {
		n += sizeEmbedded(4, l.Size())
	}
	if r.BlobGasPrice != nil {
		n += sizeEmbedded(6, r.BlobGasPrice.Size())
	}
	return n
}

func (r *TransactionReceipt) EncodeTo(e *wire.Encoder) {
	putBytes(e, 1, r.StateRoot)
	putUint64(e, 2, r.CumulativeGasUsed)
	putBytes(e, 3, r.LogsBloom)
	for _, l := range r.Logs {
		putEmbedded(e, 4, l)
	}
	putOptUint64(e, 5, r.BlobGasUsed)
	if r.BlobGasPrice != nil {
		putEmbedded(e, 6, r.BlobGasPrice)
	}
}

func (r *TransactionReceipt) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			r.StateRoot, err = d.ReadBytes()
		case 2:
			r.CumulativeGasUsed, err = d.ReadUint64()
		case 3:
			r.LogsBloom, err = d.ReadBytes()
		case 4:
			l := new(Log)
			if err = readEmbedded(d, l); err == nil {
				r.Logs = append(r.Logs, l)
			}
		case 5:
			var v uint64
			if v, err = d.ReadUint64(); err == nil {
				r.BlobGasUsed = &v
			}
		case 6:
			r.BlobGasPrice = new(BigInt)
			err = readEmbedded(d, r.BlobGasPrice)
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== Log =====

func (l *Log) Size() int {
	n := sizeBytes(1, l.Address) +
		sizeBytes(3, l.Data) +
		sizeUint32(4, l.Index) +
		sizeUint32(6, l.BlockIndex) +
		sizeUint64(7, l.Ordinal)
	for _, topic := range l.Topics {
		n += wire.TagSize(2) + wire.LenPrefixedSize(len(topic))
	}
	return n
}

func (l *Log) EncodeTo(e *wire.Encoder) {
	putBytes(e, 1, l.Address)
	for _, topic := range l.Topics {
		// Topics keep their slot even when empty; positions are meaningful.
		e.WriteTag(2, wire.WireBytes)
		e.WriteVarint(uint64(len(topic)))
		e.WriteBytes(topic)
	}
	putBytes(e, 3, l.Data)
	putUint32(e, 4, l.Index)
	putUint32(e, 6, l.BlockIndex)
	putUint64(e, 7, l.Ordinal)
}

func (l *Log) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			l.Address, err = d.ReadBytes()
		case 2:
			var topic []byte
			if topic, err = d.ReadBytes(); err == nil {
				l.Topics = append(l.Topics, topic)
			}
		case 3:
			l.Data, err = d.ReadBytes()
		case 4:
			l.Index, err = d.ReadUint32()
		case 6:
			l.BlockIndex, err = d.ReadUint32()
		case 7:
			l.Ordinal, err = d.ReadUint64()
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== Call =====

func (c *Call) Size() int {
	n := sizeUint32(1, c.Index) +
		sizeUint32(2, c.ParentIndex) +
		sizeUint32(3, c.Depth) +
		sizeInt32(4, int32(c.CallType)) +
		sizeBytes(5, c.Caller) +
		sizeBytes(6, c.Address) +
		sizeUint64(8, c.GasLimit) +
		sizeUint64(9, c.GasConsumed) +
		sizeBool(10, c.StatusFailed) +
		sizeString(11, c.FailureReason) +
		sizeBool(12, c.StatusReverted) +
		sizeBytes(13, c.ReturnData) +
		sizeBytes(14, c.Input) +
		sizeBool(15, c.ExecutedCode) +
		sizeBool(16, c.Suicide) +
		sizeStringMap(20, c.KeccakPreimages) +
		sizeBool(30, c.StateReverted) +
		sizeUint64(31, c.BeginOrdinal) +
		sizeUint64(32, c.EndOrdinal)
	if c.Value != nil {
		n += sizeEmbedded(7, c.Value.Size())
	}
	for _, s := range c.StorageChanges {
		n += sizeEmbedded(21, s.Size())
	}
	for _, b := range c.BalanceChanges {
		n += sizeEmbedded(22, b.Size())
	}
	for _, nc := range c.NonceChanges {
		n += sizeEmbedded(24, nc.Size())
	}
	for _, l := range c.Logs {
		n += sizeEmbedded(25, l.Size())
	}
	for _, g := range c.GasChanges {
		n += sizeEmbedded(28, g.Size())
	}
	return n
}

func (c *Call) EncodeTo(e *wire.Encoder) {
	putUint32(e, 1, c.Index)
	putUint32(e, 2, c.ParentIndex)
	putUint32(e, 3, c.Depth)
	putInt32(e, 4, int32(c.CallType))
	putBytes(e, 5, c.Caller)
	putBytes(e, 6, c.Address)
	if c.Value != nil {
		putEmbedded(e, 7, c.Value)
	}
	putUint64(e, 8, c.GasLimit)
	putUint64(e, 9, c.GasConsumed)
	putBool(e, 10, c.StatusFailed)
	putString(e, 11, c.FailureReason)
	putBool(e, 12, c.StatusReverted)
	putBytes(e, 13, c.ReturnData)
	putBytes(e, 14, c.Input)
	putBool(e, 15, c.ExecutedCode)
	putBool(e, 16, c.Suicide)
	putStringMap(e, 20, c.KeccakPreimages)
	for _, s := range c.StorageChanges {
		putEmbedded(e, 21, s)
	}
	for _, b := range c.BalanceChanges {
		putEmbedded(e, 22, b)
	}
	for _, nc := range c.NonceChanges {
		putEmbedded(e, 24, nc)
	}
	for _, l := range c.Logs {
		putEmbedded(e, 25, l)
	}
	for _, g := range c.GasChanges {
		putEmbedded(e, 28, g)
	}
	putBool(e, 30, c.StateReverted)
	putUint64(e, 31, c.BeginOrdinal)
	putUint64(e, 32, c.EndOrdinal)
}

func (c *Call) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			c.Index, err = d.ReadUint32()
		case 2:
			c.ParentIndex, err = d.ReadUint32()
		case 3:
			c.Depth, err = d.ReadUint32()
		case 4:
			var v int32
			if v, err = d.ReadInt32(); err == nil {
				c.CallType = CallType(v)
			}
		case 5:
			c.Caller, err = d.ReadBytes()
		case 6:
			c.Address, err = d.ReadBytes()
		case 7:
			c.Value = new(BigInt)
			err = readEmbedded(d, c.Value)
		case 8:
			c.GasLimit, err = d.ReadUint64()
		case 9:
			c.GasConsumed, err = d.ReadUint64()
		case 10:
			c.StatusFailed, err = d.ReadBool()
		case 11:
			c.FailureReason, err = d.ReadString()
		case 12:
			c.StatusReverted, err = d.ReadBool()
		case 13:
			c.ReturnData, err = d.ReadBytes()
		case 14:
			c.Input, err = d.ReadBytes()
		case 15:
			c.ExecutedCode, err = d.ReadBool()
		case 16:
			c.Suicide, err = d.ReadBool()
		case 20:
			c.KeccakPreimages, err = readStringMapEntry(d, c.KeccakPreimages)
		case 21:
			s := new(StorageChange)
			if err = readEmbedded(d, s); err == nil {
				c.StorageChanges = append(c.StorageChanges, s)
			}
		case 22:
			b := new(BalanceChange)
			if err = readEmbedded(d, b); err == nil {
				c.BalanceChanges = append(c.BalanceChanges, b)
			}
		case 24:
			nc := new(NonceChange)
			if err = readEmbedded(d, nc); err == nil {
				c.NonceChanges = append(c.NonceChanges, nc)
			}
		case 25:
			l := new(Log)
			if err = readEmbedded(d, l); err == nil {
				c.Logs = append(c.Logs, l)
			}
		case 28:
			g := new(GasChange)
			if err = readEmbedded(d, g); err == nil {
				c.GasChanges = append(c.GasChanges, g)
			}
		case 30:
			c.StateReverted, err = d.ReadBool()
		case 31:
			c.BeginOrdinal, err = d.ReadUint64()
		case 32:
			c.EndOrdinal, err = d.ReadUint64()
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== BalanceChange =====

func (b *BalanceChange) Size() int {
	n := sizeBytes(1, b.Address) +
		sizeInt32(4, int32(b.Reason)) +
		sizeUint64(5, b.Ordinal)
	if b.OldValue != nil {
		n += sizeEmbedded(2, b.OldValue.Size())
	}
	if b.NewValue != nil {
		n += sizeEmbedded(3, b.NewValue.Size())
	}
	return n
}

func (b *BalanceChange) EncodeTo(e *wire.Encoder) {
	putBytes(e, 1, b.Address)
	if b.OldValue != nil {
		putEmbedded(e, 2, b.OldValue)
	}
	if b.NewValue != nil {
		putEmbedded(e, 3, b.NewValue)
	}
	putInt32(e, 4, int32(b.Reason))
	putUint64(e, 5, b.Ordinal)
}

func (b *BalanceChange) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			b.Address, err = d.ReadBytes()
		case 2:
			b.OldValue = new(BigInt)
			err = readEmbedded(d, b.OldValue)
		case 3:
			b.NewValue = new(BigInt)
			err = readEmbedded(d, b.NewValue)
		case 4:
			var v int32
			if v, err = d.ReadInt32(); err == nil {
				b.Reason = BalanceChangeReason(v)
			}
		case 5:
			b.Ordinal, err = d.ReadUint64()
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== StorageChange =====

func (s *StorageChange) Size() int {
	return sizeBytes(1, s.Address) +
		sizeBytes(2, s.Key) +
		sizeBytes(3, s.OldValue) +
		sizeBytes(4, s.NewValue) +
		sizeUint64(5, s.Ordinal)
}

func (s *StorageChange) EncodeTo(e *wire.Encoder) {
	putBytes(e, 1, s.Address)
	putBytes(e, 2, s.Key)
	putBytes(e, 3, s.OldValue)
	putBytes(e, 4, s.NewValue)
	putUint64(e, 5, s.Ordinal)
}

func (s *StorageChange) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			s.Address, err = d.ReadBytes()
		case 2:
			s.Key, err = d.ReadBytes()
		case 3:
			s.OldValue, err = d.ReadBytes()
		case 4:
			s.NewValue, err = d.ReadBytes()
		case 5:
			s.Ordinal, err = d.ReadUint64()
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== NonceChange =====

func (n *NonceChange) Size() int {
	return sizeBytes(1, n.Address) +
		sizeUint64(2, n.OldValue) +
		sizeUint64(3, n.NewValue) +
		sizeUint64(4, n.Ordinal)
}

func (n *NonceChange) EncodeTo(e *wire.Encoder) {
	putBytes(e, 1, n.Address)
	putUint64(e, 2, n.OldValue)
	putUint64(e, 3, n.NewValue)
	putUint64(e, 4, n.Ordinal)
}

func (n *NonceChange) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			n.Address, err = d.ReadBytes()
		case 2:
			n.OldValue, err = d.ReadUint64()
		case 3:
			n.NewValue, err = d.ReadUint64()
		case 4:
			n.Ordinal, err = d.ReadUint64()
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== GasChange =====

func (g *GasChange) Size() int {
	return sizeUint64(1, g.OldValue) +
		sizeUint64(2, g.NewValue) +
		sizeInt32(3, int32(g.Reason)) +
		sizeUint64(4, g.Ordinal)
}

func (g *GasChange) EncodeTo(e *wire.Encoder) {
	putUint64(e, 1, g.OldValue)
	putUint64(e, 2, g.NewValue)
	putInt32(e, 3, int32(g.Reason))
	putUint64(e, 4, g.Ordinal)
}

func (g *GasChange) DecodeFrom(d *wire.Decoder) error {
	for !d.AtEnd() {
		tag, err := d.ReadTag()
		if err != nil {
			return err
		}
		num, wt := wire.ParseTag(tag)
		switch num {
		case 1:
			g.OldValue, err = d.ReadUint64()
		case 2:
			g.NewValue, err = d.ReadUint64()
		case 3:
			var v int32
			if v, err = d.ReadInt32(); err == nil {
				g.Reason = GasChangeReason(v)
			}
		case 4:
			g.Ordinal, err = d.ReadUint64()
		default:
			err = d.SkipField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
