package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	sortedmap "MVDB/map"
	"MVDB/multimap"
)

func newSession(opts *multimap.Options) *Session {
	return NewSession(multimap.New[string, string](opts), nil)
}

func TestParseOp(t *testing.T) {
	for _, tc := range []struct {
		line string
		op   Op
		err  Err
		ok   bool
	}{
		{"", Op{}, OK, false},
		{"   ", Op{}, OK, false},
		{"set a 1", Op{Type: OpSet, Key: "a", Value: "1"}, OK, true},
		{"SET a 1", Op{Type: OpSet, Key: "a", Value: "1"}, OK, true},
		{"pop a", Op{Type: OpPop, Key: "a"}, OK, true},
		{"pop a x", Op{Type: OpPop, Key: "a", Value: "x", HasDefault: true}, OK, true},
		{"values", Op{Type: OpValues}, OK, true},
		{"values b c", Op{Type: OpValues, Range: sortedmap.Between("b", "c")}, OK, true},
		{"keys - c", Op{Type: OpKeys, Range: sortedmap.To("c")}, OK, true},
		{"keys b -", Op{Type: OpKeys, Range: sortedmap.From("b")}, OK, true},
		{"values b", Op{Type: OpValues}, ErrArgs, true},
		{"set a", Op{Type: OpSet}, ErrArgs, true},
		{"popitem now", Op{Type: OpPopItem}, ErrArgs, true},
		{"append a b", Op{Type: "append"}, ErrUnknownOp, true},
	} {
		op, err, ok := ParseOp(tc.line)
		assert.Equal(t, tc.ok, ok, "%q", tc.line)
		assert.Equal(t, tc.err, err, "%q", tc.line)
		assert.Equal(t, tc.op, op, "%q", tc.line)
	}
}

func TestExecute(t *testing.T) {
	s := newSession(nil)
	for _, tc := range []struct {
		line  string
		reply Reply
	}{
		{"set a 1", Reply{Err: OK}},
		{"set a 2", Reply{Err: OK}},
		{"set b 3", Reply{Err: OK}},
		{"get a", Reply{Err: OK, Value: "[1 2]"}},
		{"get z", Reply{Err: ErrNoKey, Value: "[]"}},
		{"has b", Reply{Err: OK, Value: "true"}},
		{"len", Reply{Err: OK, Value: "3"}},
		{"values", Reply{Err: OK, Value: "[1 2 3]"}},
		{"keys", Reply{Err: OK, Value: "[a b]"}},
		{"min", Reply{Err: OK, Value: "a"}},
		{"max", Reply{Err: OK, Value: "b"}},
		{"popitem", Reply{Err: OK, Value: "a 2"}},
		{"pop a", Reply{Err: OK, Value: "1"}},
		{"pop a", Reply{Err: ErrNoKey}},
		{"pop a dflt", Reply{Err: OK, Value: "dflt"}},
		{"len", Reply{Err: OK, Value: "0"}},
		{"show", Reply{Err: OK, Value: "{b: [3]}"}},
		{"del b", Reply{Err: OK}},
		{"del b", Reply{Err: ErrNoKey}},
		{"popitem", Reply{Err: ErrEmpty}},
		{"min", Reply{Err: ErrEmpty}},
		{"frobnicate", Reply{Err: ErrUnknownOp}},
	} {
		reply, ok := s.Execute(tc.line)
		require.True(t, ok, tc.line)
		assert.Equal(t, tc.reply, reply, tc.line)
	}
}

func TestRun(t *testing.T) {
	s := newSession(multimap.DefaultOptions().WithReverseOrder(true))
	in := strings.NewReader(strings.Join([]string{
		"set a 1",
		"set a 2",
		"",
		"set b 3",
		"values",
		"values a a",
		"keys",
		"pop z",
		"pop z \"\"",
		"len",
	}, "\n"))
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), in, &out))
	assert.Equal(t, strings.Join([]string{
		"[3 2 1]",
		"[2 1]",
		"[b a]",
		"error: ErrNoKey",
		`""`,
		"2",
	}, "\n")+"\n", out.String())
}

func TestRunInteractive(t *testing.T) {
	s := newSession(nil).Interactive(true)
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), strings.NewReader("set a 1\nget a\n"), &out))
	assert.Equal(t, "-> -> [1]\n-> ", out.String())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := newSession(nil).Run(ctx, strings.NewReader("set a 1\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestRunCancelledWhileWaiting(t *testing.T) {
	defer goleak.VerifyNone(t)

	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	s := newSession(nil)

	done := make(chan error, 1)
	var out bytes.Buffer
	go func() { done <- s.Run(ctx, pr, &out) }()

	// The write returns once the reader goroutine has taken the line, after
	// which Run waits on the still open pipe.
	_, err := io.WriteString(pw, "set a 1\n")
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.NoError(t, pw.Close())
}

func TestWrite(t *testing.T) {
	s := newSession(multimap.DefaultOptions().WithQueueType(multimap.FIFO))
	s.Execute("set k x")
	s.Execute("set k y")
	file := filepath.Join(t.TempDir(), "dump.txt")
	reply, _ := s.Execute("write " + file)
	require.Equal(t, Reply{Err: OK}, reply)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "{k: [y x]}\n", string(content))

	reply, _ = s.Execute("write " + filepath.Join(t.TempDir(), "missing", "dump.txt"))
	assert.Equal(t, Reply{Err: ErrIO}, reply)
}
