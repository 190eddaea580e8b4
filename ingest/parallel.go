package ingest

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// parallelThreshold is the node count above which ParseObjectForm farms
// per-node attribute derivation out to nodePool
// instead of deriving it inline. Below this count the pool's task
// submission overhead costs more than the work it would save.
const parallelThreshold = 4096

var (
	nodePoolOnce sync.Once
	nodePool     worker.DynamicWorkerPool
)

// sharedNodePool lazily constructs a worker pool sized to the host and
// reused across every ingestion call, mirroring the teacher's
// scene.computePool: workers persist instead of being spawned and torn
// down per parse.
func sharedNodePool() worker.DynamicWorkerPool {
	nodePoolOnce.Do(func() {
		workers := runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
		nodePool = worker.NewDynamicWorkerPool(workers, 256, time.Second)
	})
	return nodePool
}

// deriveNodeAttrs computes the defaulted radius/position/color fields for
// one object-form node record. Pure and allocation-free beyond the color
// parse, so safe to run concurrently across disjoint output slots.
func deriveNodeAttrs(n NodeSpec) (x, y, radius float32, rgb [3]float32) {
	radius = defaultNodeRadius
	if n.Radius != nil {
		radius = *n.Radius
	}
	if n.X != nil {
		x = *n.X
	}
	if n.Y != nil {
		y = *n.Y
	}
	rgb = ParseColor(n.Color)
	return x, y, radius, rgb
}

type derivedNode struct {
	x, y, radius float32
	rgb          [3]float32
}

// deriveNodesParallel fills one derivedNode per entry of nodes, splitting
// the work across sharedNodePool's workers when the batch is large
// enough to be worth it; below parallelThreshold it runs inline.
func deriveNodesParallel(nodes []NodeSpec) []derivedNode {
	out := make([]derivedNode, len(nodes))
	if len(nodes) < parallelThreshold {
		for i, n := range nodes {
			x, y, radius, rgb := deriveNodeAttrs(n)
			out[i] = derivedNode{x: x, y: y, radius: radius, rgb: rgb}
		}
		return out
	}

	pool := sharedNodePool()
	var wg sync.WaitGroup
	chunks := runtime.NumCPU()
	if chunks < 1 {
		chunks = 1
	}
	chunkSize := (len(nodes) + chunks - 1) / chunks

	for start := 0; start < len(nodes); start += chunkSize {
		end := start + chunkSize
		if end > len(nodes) {
			end = len(nodes)
		}
		s, e := start, end
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: s,
			Do: func() (any, error) {
				defer wg.Done()
				for i := s; i < e; i++ {
					x, y, radius, rgb := deriveNodeAttrs(nodes[i])
					out[i] = derivedNode{x: x, y: y, radius: radius, rgb: rgb}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return out
}
