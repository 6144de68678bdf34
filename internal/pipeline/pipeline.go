// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"github.com/matthuska/motifcounter/core/fasta"
	"github.com/matthuska/motifcounter/core/scan"
	"github.com/matthuska/motifcounter/internal/runutil"
)

// Scanner is the minimal contract the pipeline needs.
type Scanner interface {
	Sequence(seq []byte) scan.Result
}

// Config controls the scanning pipeline.
type Config struct {
	Threads int  // number of worker goroutines; 0 = one per CPU
	KeepSeq bool // keep Item.Seq after scanning
}

// Item is one scanned record.
type Item struct {
	Index  int // 0-based across all files
	File   string
	ID     string
	Desc   string
	Length int
	Seq    []byte // nil unless Config.KeepSeq
	Result scan.Result
}

// ForEachResult scans every record of seqFiles and calls visit once per
// record, in file then record order. It returns the first error
// encountered (including context cancellation).
func ForEachResult(
	ctx context.Context,
	cfg Config,
	seqFiles []string,
	sc Scanner,
	visit func(Item) error,
) error {
	threads := runutil.EffectiveThreads(cfg.Threads)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan Item, threads*2)
	results := make(chan Item, threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case it, ok := <-jobs:
					if !ok {
						return
					}
					it.Result = sc.Sequence(it.Seq)
					if !cfg.KeepSeq {
						it.Seq = nil
					}
					select {
					case results <- it:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector: reorders by Index so visit sees input order.
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := map[int]Item{}
		next := 0
		for it := range results {
			if cerr != nil {
				continue
			}
			pending[it.Index] = it
			for {
				p, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := visit(p); err != nil {
					cerr = err
					cancel()
					break
				}
			}
		}
	}()

	// Feed work
	var ferr error
	idx := 0
feed:
	for _, fa := range seqFiles {
		recs, errc, err := fasta.Records(ctx, fa)
		if err != nil {
			ferr = err
			break
		}
		for rec := range recs {
			it := Item{Index: idx, File: fa, ID: rec.ID, Desc: rec.Desc, Length: len(rec.Seq), Seq: rec.Seq}
			select {
			case <-ctx.Done():
				break feed
			case jobs <- it:
				idx++
			}
		}
		if err := <-errc; err != nil {
			ferr = err
			break
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	if ferr != nil {
		return ferr
	}
	return ctx.Err()
}
