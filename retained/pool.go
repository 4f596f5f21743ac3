package retained

import (
	"sync"

	"github.com/agiangrant/ctdlayout/geom"
)

// ============================================================================
// Snapshot Slice Pooling
// ============================================================================
//
// Every layout pass snapshots its items and builds a scratch slice of sizes.
// Resizing a deep tree runs one pass per container, so these slices are
// pooled to keep allocations flat.
//
// Usage:
//   infos := acquireInfoSlice(len(items))
//   ... use infos ...
//   releaseInfoSlice(infos)

var infoSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]ItemInfo, 0, 16)
	},
}

// acquireInfoSlice gets an ItemInfo slice with len == n.
func acquireInfoSlice(n int) []ItemInfo {
	slice := infoSlicePool.Get().([]ItemInfo)
	if cap(slice) < n {
		infoSlicePool.Put(slice[:0])
		return make([]ItemInfo, n, n*2)
	}
	slice = slice[:n]
	for i := range slice {
		slice[i] = ItemInfo{}
	}
	return slice
}

// releaseInfoSlice returns an ItemInfo slice to the pool.
func releaseInfoSlice(slice []ItemInfo) {
	if slice == nil {
		return
	}
	if cap(slice) <= 256 {
		infoSlicePool.Put(slice[:0])
	}
}

var sizeSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]geom.Size, 0, 16)
	},
}

// acquireSizeSlice gets a zeroed Size slice with len == n.
func acquireSizeSlice(n int) []geom.Size {
	slice := sizeSlicePool.Get().([]geom.Size)
	if cap(slice) < n {
		sizeSlicePool.Put(slice[:0])
		return make([]geom.Size, n, n*2)
	}
	slice = slice[:n]
	for i := range slice {
		slice[i] = geom.Size{}
	}
	return slice
}

// releaseSizeSlice returns a Size slice to the pool.
func releaseSizeSlice(slice []geom.Size) {
	if slice == nil {
		return
	}
	if cap(slice) <= 256 {
		sizeSlicePool.Put(slice[:0])
	}
}

// ============================================================================
// Item List Pooling
// ============================================================================

var itemSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]LayoutItem, 0, 16)
	},
}

// acquireItemSlice gets a LayoutItem slice with len == n.
func acquireItemSlice(n int) []LayoutItem {
	slice := itemSlicePool.Get().([]LayoutItem)
	if cap(slice) < n {
		itemSlicePool.Put(slice[:0])
		return make([]LayoutItem, n, n*2)
	}
	return slice[:n]
}

// releaseItemSlice returns a LayoutItem slice to the pool, dropping references.
func releaseItemSlice(slice []LayoutItem) {
	if slice == nil {
		return
	}
	for i := range slice {
		slice[i] = nil
	}
	if cap(slice) <= 256 {
		itemSlicePool.Put(slice[:0])
	}
}
