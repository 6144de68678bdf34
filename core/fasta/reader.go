// core/fasta/reader.go
package fasta

import (
	"context"
	"fmt"
)

// Record is one parsed FASTA entry.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// StreamPath opens path (see Open) and streams its records to emit.
func StreamPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := Stream(ctx, rc, emit); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Records is the channel wrapper around StreamPath. Open errors are
// reported immediately for paths other than stdin; a parse error ends the
// stream and is delivered on the returned error channel.
func Records(ctx context.Context, path string) (<-chan Record, <-chan error, error) {
	if path != "-" {
		rc, err := Open(path)
		if err != nil {
			return nil, nil, err
		}
		_ = rc.Close()
	}
	out := make(chan Record, 8)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		err := StreamPath(ctx, path, func(r Record) error {
			select {
			case out <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errc <- err
		}
	}()
	return out, errc, nil
}

// ReadAll loads every record of every path, in order.
func ReadAll(ctx context.Context, paths []string) ([]Record, error) {
	var recs []Record
	for _, p := range paths {
		err := StreamPath(ctx, p, func(r Record) error {
			recs = append(recs, r)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return recs, nil
}
