package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"duorc"
)

var (
	arity    = flag.Int("arity", 2, "field arity of benchmark tree nodes")
	workers  = flag.Int("workers", 8, "worker goroutines for the multi-thread benchmarks")
	depth    = flag.Int("depth", 10, "tree depth for the single- and multi-thread benchmarks")
	rounds   = flag.Int("rounds", 100, "tree-build rounds per worker in the multi-thread benchmarks")
	validate = flag.Bool("validate", false, "enable validation mode and run the end-to-end leak check instead of timing")
	verbose  = flag.Bool("v", false, "verbose output")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "duorc-bench - reference-counted heap benchmark and validation driver\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # run all six timed benchmarks\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -validate              # run the end-to-end leak check instead\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -arity 3 -depth 12     # wider, deeper trees\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -workers 16 -rounds 50 # heavier multi-thread publish stress\n", os.Args[0])
	}
	flag.Parse()

	if *validate {
		duorc.Validation = true
		runValidation()
		return
	}

	runBenchmarks()
}

func vlogf(format string, args ...interface{}) {
	if *verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func runBenchmarks() {
	vlogf("single-thread depth=%d arity=%d\n", *depth, *arity)
	timeIt("manual/single-thread", func() {
		tree := duorc.BuildTree(duorc.AllocateManual, *arity, *depth)
		tree.Delete()
	})
	timeIt("solo/single-thread", func() {
		tree := duorc.BuildTree(duorc.AllocateSolo, *arity, *depth)
		tree.Drop()
	})
	timeIt("thread-safe/single-thread", func() {
		tree := duorc.BuildTree(duorc.AllocateThreadSafe, *arity, *depth)
		tree.Drop()
	})
	timeIt("dynamic/single-thread", func() {
		tree := duorc.BuildTree(duorc.Allocate, *arity, *depth)
		tree.Drop()
	})

	vlogf("multi-thread workers=%d rounds=%d depth=%d\n", *workers, *rounds, *depth)
	timeIt("thread-safe/multi-thread", func() {
		multiThreadPublishThreadSafe(*depth)
	})
	timeIt("dynamic/multi-thread", func() {
		multiThreadPublishDynamic(*depth)
	})
}

func timeIt(label string, fn func()) {
	start := time.Now()
	fn()
	fmt.Printf("%-28s %v\n", label, time.Since(start))
}

// multiThreadPublishThreadSafe has each of workers goroutines build a
// tree rounds times and publish it into slot 0 of a shared global,
// matching dynamic_rc_benchmark.cpp's thread-safe multi-thread case.
func multiThreadPublishThreadSafe(depth int) {
	global := duorc.AllocateThreadSafe(*arity)
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < *rounds; r++ {
				tree := duorc.BuildTree(duorc.AllocateThreadSafe, *arity, depth)
				global.Set(0, tree, true)
				tree.Drop()
			}
		}()
	}
	wg.Wait()
	global.Set(0, duorc.ThreadSafeHandle{}, false)
	global.Drop()
}

// multiThreadPublishDynamic mirrors multiThreadPublishThreadSafe but
// publishes into a dynamic-handle global that is marked shared before
// any worker starts, matching dynamic_rc_benchmark.cpp's dynamic
// multi-thread case.
func multiThreadPublishDynamic(depth int) {
	global := duorc.Allocate(*arity)
	global.MarkShared()
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < *rounds; r++ {
				tree := duorc.BuildTree(duorc.Allocate, *arity, depth)
				global.Set(0, tree, true)
				tree.Drop()
			}
		}()
	}
	wg.Wait()
	global.Set(0, duorc.Handle{}, false)
	global.Drop()
}

// runValidation is the validation-mode end-to-end run
// (dynamic_rc_benchmark.cpp's RC_VALIDATION branch): build and tear
// down depth-25 trees with each handle kind, then run the two
// concurrent-publish loops, asserting the live-object counter returns
// to zero throughout.
func runValidation() {
	const validationDepth = 25

	manualTree := duorc.BuildTree(duorc.AllocateManual, *arity, validationDepth)
	manualTree.Delete()
	check("manual")

	soloTree := duorc.BuildTree(duorc.AllocateSolo, *arity, validationDepth)
	soloTree.Drop()
	check("solo")

	tsTree := duorc.BuildTree(duorc.AllocateThreadSafe, *arity, validationDepth)
	tsTree.Drop()
	check("thread-safe")

	dynTree := duorc.BuildTree(duorc.Allocate, *arity, validationDepth)
	dynTree.Drop()
	check("dynamic")

	multiThreadPublishThreadSafe(10)
	check("thread-safe multi-thread")

	multiThreadPublishDynamic(10)
	check("dynamic multi-thread")

	fmt.Println("validation passed: live count is zero after every phase")
}

func check(phase string) {
	if live := duorc.LiveCount(); live != 0 {
		fmt.Fprintf(os.Stderr, "validation failed after %s: live count = %d\n", phase, live)
		os.Exit(1)
	}
	vlogf("%-28s ok (live=0)\n", phase)
}
