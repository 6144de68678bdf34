package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestForEachResult_PreservesOrder(t *testing.T) {
	var a, b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&a, ">a%d\n%s\n", i, strings.Repeat("A", 1+i%7))
		fmt.Fprintf(&b, ">b%d\nCCC\n", i)
	}
	files := []string{writeFasta(t, "a.fa", a.String()), writeFasta(t, "b.fa", b.String())}

	var ids []string
	err := ForEachResult(context.Background(), Config{Threads: 4}, files, fakeScanner{}, func(it Item) error {
		if it.Index != len(ids) {
			t.Fatalf("index %d delivered at position %d", it.Index, len(ids))
		}
		if it.Seq != nil {
			t.Fatalf("Seq should be dropped without KeepSeq")
		}
		ids = append(ids, it.ID)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 100 || ids[0] != "a0" || ids[49] != "a49" || ids[50] != "b0" {
		t.Fatalf("unexpected order: %v", ids)
	}
}

func TestForEachResult_VisitErrorStops(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, ">s%d\nACGT\n", i)
	}
	fn := writeFasta(t, "many.fa", sb.String())
	stop := errors.New("stop")
	n := 0
	err := ForEachResult(context.Background(), Config{Threads: 2}, []string{fn}, fakeScanner{}, func(Item) error {
		n++
		if n == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("want stop, got %v", err)
	}
	if n != 3 {
		t.Fatalf("visit called %d times after error", n)
	}
}

func TestForEachResult_MissingFile(t *testing.T) {
	err := ForEachResult(context.Background(), Config{Threads: 1}, []string{"does-not-exist.fa"}, fakeScanner{}, func(Item) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestForEachResult_Canceled(t *testing.T) {
	fn := writeFasta(t, "c.fa", ">s\nACGT\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEachResult(ctx, Config{Threads: 1}, []string{fn}, fakeScanner{}, func(Item) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
