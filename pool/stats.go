package pool

import (
	"unsafe"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/slotpool/memutils"
)

// AddStatistics sums this pool's block and allocation counts into stats
func (p *Pool[T]) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount += p.blockCount
	stats.BlockBytes += p.blockCount * p.layout.BlockSize
	stats.AllocationCount += p.allocationCount
	stats.AllocationBytes += p.allocationCount * p.layout.SlotSize
}

// AddDetailedStatistics sums this pool's statistics into stats, walking the block chain to
// account for the overhead of every block.
func (p *Pool[T]) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	p.visitBlocks(func(index int, blockPtr unsafe.Pointer) {
		_, slotCount := p.layout.carve(uintptr(blockPtr))
		stats.AddBlock(p.layout.BlockSize, slotCount, p.layout.BlockSize-slotCount*p.layout.SlotSize)
	})

	stats.AllocationCount += p.allocationCount
	stats.AllocationBytes += p.allocationCount * p.layout.SlotSize
	stats.FreeSlotCount += p.freeCount
	stats.UnusedSlotCount += (p.lastSlot - p.currentSlot) / p.layout.SlotSize
}

// BuildStatsString returns a JSON document describing the pool's layout and usage. If detailed
// is true, it also lists every block in the chain, newest first.
func (p *Pool[T]) BuildStatsString(detailed bool) string {
	var stats memutils.DetailedStatistics
	stats.Clear()
	p.AddDetailedStatistics(&stats)

	writer := jwriter.NewWriter()
	objState := writer.Object()

	layoutObj := objState.Name("Layout").Object()
	layoutObj.Name("BlockSize").Int(p.layout.BlockSize)
	layoutObj.Name("HeaderSize").Int(p.layout.HeaderSize)
	layoutObj.Name("SlotSize").Int(p.layout.SlotSize)
	layoutObj.Name("SlotAlignment").Int(p.layout.SlotAlignment)
	layoutObj.Name("MinSlotsPerBlock").Int(p.layout.MinSlotsPerBlock())
	layoutObj.End()

	totalObj := objState.Name("Total").Object()
	totalObj.Name("BlockCount").Int(stats.BlockCount)
	totalObj.Name("BlockBytes").Int(stats.BlockBytes)
	totalObj.Name("AllocationCount").Int(stats.AllocationCount)
	totalObj.Name("AllocationBytes").Int(stats.AllocationBytes)
	totalObj.Name("FreeSlots").Int(stats.FreeSlotCount)
	totalObj.Name("UnusedSlots").Int(stats.UnusedSlotCount)
	totalObj.Name("OverheadBytes").Int(stats.OverheadBytes)
	if stats.BlockCount > 0 {
		totalObj.Name("SlotsPerBlockMin").Int(stats.SlotsPerBlockMin)
		totalObj.Name("SlotsPerBlockMax").Int(stats.SlotsPerBlockMax)
	}
	totalObj.End()

	if detailed {
		p.printDetailedBlocks(&objState)
	}

	objState.End()
	return string(writer.Bytes())
}

func (p *Pool[T]) printDetailedBlocks(json *jwriter.ObjectState) {
	arrayState := json.Name("Blocks").Array()
	defer arrayState.End()

	p.visitBlocks(func(index int, blockPtr unsafe.Pointer) {
		padding, slotCount := p.layout.carve(uintptr(blockPtr))

		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Index").Int(index)
		obj.Name("Current").Bool(blockPtr == p.currentBlock)
		obj.Name("PaddingBytes").Int(padding)
		obj.Name("Slots").Int(slotCount)
		obj.Name("TailBytes").Int(p.layout.BlockSize - p.layout.HeaderSize - padding - slotCount*p.layout.SlotSize)
	})
}
