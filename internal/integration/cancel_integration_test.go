package integration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matthuska/motifcounter/internal/app"
)

func TestCtrlC_MidScan_Exit130(t *testing.T) {
	// Many biggish records so scanning is underway when the cancel lands.
	var sb strings.Builder
	rec := strings.Repeat("ACGTAGCTATTGCA", 1<<15)
	for i := 0; i < 64; i++ {
		fmt.Fprintf(&sb, ">chr%d\n%s\n", i, rec)
	}
	fn := write(t, "cancel_big.fa", sb.String())
	m := write(t, "m.tab", motifTab)

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel shortly after start.
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	code := app.RunContext(ctx, []string{"scan", "-m", m, "--threads", "1", fn}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
