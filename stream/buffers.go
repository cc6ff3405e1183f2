// Package stream owns the per-stream columnar buffers a Snapshot is
// projected into, and the block builder that drains them into encoded,
// header-framed blocks.
package stream

// Buffers accumulates the six columnar projections of a sequence of
// snapshots: TIME and SNAPSHOT_LEN grow one entry per snapshot; ITEM_ID,
// VALUE and QUANTITY grow one entry per item across all snapshots; META
// grows one opaque blob per snapshot (empty when a snapshot carries none).
type Buffers struct {
	Time        []int64
	SnapshotLen []int64
	ItemID      []int64
	Value       []int64
	Quantity    []int64
	Meta        [][]byte
}

// AddSnapshot appends one snapshot's contribution to every stream: the
// timestamp and item count to TIME/SNAPSHOT_LEN, then each item's id,
// price and quantity to ITEM_ID/VALUE/QUANTITY in the order given.
func (b *Buffers) AddSnapshot(timestamp int64, itemIDs []uint32, prices []int64, quantities []int64, meta []byte) {
	b.Time = append(b.Time, timestamp)
	b.SnapshotLen = append(b.SnapshotLen, int64(len(itemIDs)))

	for _, id := range itemIDs {
		b.ItemID = append(b.ItemID, int64(id))
	}
	b.Value = append(b.Value, prices...)
	b.Quantity = append(b.Quantity, quantities...)
	b.Meta = append(b.Meta, meta)
}
