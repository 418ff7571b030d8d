package renderer

import (
	"runtime"
	"sync"
)

// TileResult reports the completion of one tile
type TileResult struct {
	Tile    Tile
	Samples int // Total samples taken across the tile's pixels
}

// WorkerPool renders tiles in parallel. Tiles have disjoint bounds, so
// workers write into the shared image without locks.
type WorkerPool struct {
	taskQueue   chan Tile
	resultQueue chan TileResult
	numWorkers  int
	renderTile  func(Tile) int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a pool with the specified number of workers.
// A non-positive worker count means one worker per CPU. The queues are
// buffered for capacity tiles so submission never blocks.
func NewWorkerPool(numWorkers, capacity int, renderTile func(Tile) int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		taskQueue:   make(chan Tile, capacity),
		resultQueue: make(chan TileResult, capacity),
		numWorkers:  numWorkers,
		renderTile:  renderTile,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Submit queues a tile for rendering
func (wp *WorkerPool) Submit(tile Tile) {
	wp.taskQueue <- tile
}

// Results returns the channel of completed tiles. It is closed by Stop
// after all workers have drained the task queue.
func (wp *WorkerPool) Results() <-chan TileResult {
	return wp.resultQueue
}

// Stop closes the task queue and, once all workers finish, the result queue
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
	}()
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for tile := range wp.taskQueue {
		samples := wp.renderTile(tile)
		wp.resultQueue <- TileResult{Tile: tile, Samples: samples}
	}
}
