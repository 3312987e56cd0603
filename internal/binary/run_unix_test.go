//go:build !windows

package binary

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/testutil"
)

func TestRun_SignaledChild(t *testing.T) {
	inst := newTestInstaller(t, "https://example.com/pkg.tar.gz", "tool")
	testutil.FakeBinary(t, inst.BinaryDir(), "tool", "kill -TERM $$\nsleep 5\n")

	code, err := inst.Run(context.Background(), nil, Stdio{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := 128 + int(syscall.SIGTERM); code != want {
		t.Errorf("exit code = %d, want %d", code, want)
	}
}

func TestRun_ForwardsSIGTERM(t *testing.T) {
	inst := newTestInstaller(t, "https://example.com/pkg.tar.gz", "tool")
	ready := filepath.Join(t.TempDir(), "ready")
	testutil.FakeBinary(t, inst.BinaryDir(), "tool", `trap 'exit 42' TERM
: > "`+ready+`"
while :; do sleep 0.1; done
`)

	type result struct {
		code int
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := inst.Run(context.Background(), nil, Stdio{})
		done <- result{code, err}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(ready); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("child never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send SIGTERM: %v", err)
	}

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("Run failed: %v", res.err)
		}
		if res.code != 42 {
			t.Errorf("exit code = %d, want 42", res.code)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("child did not exit after SIGTERM")
	}
}
