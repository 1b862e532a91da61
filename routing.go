package parsley

import (
	"context"
	"fmt"
	"hash"
	"hash/crc32"
	"math"
	"sync"
)

// eventProcessor is the function each partition worker invokes for every event it receives
type eventProcessor func(e IncomingEvent)

type partitionRouter struct {
	// Logger
	log SLogger

	// eventQueues with partition keyed by the hash of the incoming event's channel id
	// so that processing of events from the same channel is handled by the same work
	// queue therefore ensuring correct ordered processing of those events
	eventQueues []chan IncomingEvent

	// workers tracks running partition workers until their queue is closed and drained
	workers sync.WaitGroup

	// hash function to direct event processing to partitions
	hasher   hash.Hash32
	hashMask int

	*instrumenter
}

func newPartitionRouter(partitionCount int, queueBufferSize int, log SLogger, instrumenter *instrumenter) (pr *partitionRouter, err error) {
	if !isPowerOfTwo(partitionCount) {
		return nil, fmt.Errorf("A partition router can only work with a partitionCount that is a power of two but was [%d]", partitionCount)
	}

	if queueBufferSize < 0 {
		return nil, fmt.Errorf("A partition router queue buffer size can't be negative but was [%d]", queueBufferSize)
	}

	pr = new(partitionRouter)
	pr.eventQueues = make([]chan IncomingEvent, partitionCount)
	for i := range pr.eventQueues {
		pr.eventQueues[i] = make(chan IncomingEvent, queueBufferSize)
	}
	pr.hasher = crc32.NewIEEE()
	pr.hashMask = hashMask(partitionCount)
	pr.log = log
	pr.instrumenter = instrumenter

	return pr, nil
}

// start launches one worker per partition. Each worker processes the events of its queue in order until the
// queue is closed by stop
func (pr *partitionRouter) start(process eventProcessor) {
	for i, q := range pr.eventQueues {
		pr.workers.Add(1)

		go func(partition int, queue <-chan IncomingEvent) {
			defer pr.workers.Done()

			for e := range queue {
				process(e)
			}

			pr.log.Debugf("Worker for partition [%d] terminated", partition)
		}(i, q)
	}
}

// stop closes all partition queues and waits for workers to finish processing what was already queued. The
// router must not be used to route events after stop is called
func (pr *partitionRouter) stop() {
	for _, q := range pr.eventQueues {
		close(q)
	}

	pr.workers.Wait()
}

// routeEvent routes the event processing to the correct partition based on its channel id to ensure
// that all events of a channel are processed in order
func (pr *partitionRouter) routeEvent(ctx context.Context, e IncomingEvent) {
	partition := pr.partitionForChannelID(e.Channel)

	pr.log.Debugf("Dispatching [%s] event on channel [%s] to partition [%d]", e.Type, e.Channel, partition)
	d := measure(func() {
		pr.eventQueues[partition] <- e
	})

	pr.recordDispatchLatency(ctx, d)
}

// partitionForChannelID returns the partition index for a given channel ID
func (pr *partitionRouter) partitionForChannelID(channelID string) (partition int) {
	pr.hasher.Reset()
	pr.hasher.Write([]byte(channelID))
	res := pr.hasher.Sum32()

	// Keep only the rightmost bits so we have a max equal to the partition count
	return int(res) & pr.hashMask
}

// isPowerOfTwo returns true if val is a power of two or false if not
func isPowerOfTwo(val int) bool {
	return (val > 0) && (val&(val-1)) == 0
}

// hashMask builds a mask for a partitionCount (which should be a power of two) to get a hash value
// that is in the range of the number of partitions we have
func hashMask(partitionCount int) int {
	maskSize := int(math.Log2(float64(partitionCount)))
	mask := 0
	for i := 0; i < maskSize; i++ {
		mask = mask<<1 | 1
	}

	return mask
}
