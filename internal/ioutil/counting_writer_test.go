package ioutil_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"braces.dev/errtrace"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/urlkit/urlobject/internal/ioutil"
)

var errWrite = errors.New("write failed")

type errorWriter struct {
	failAfter int
	written   int
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	if ew.written >= ew.failAfter {
		return 0, errtrace.Wrap(errWrite)
	}
	n = len(p)
	if ew.written+n > ew.failAfter {
		n = ew.failAfter - ew.written
	}
	ew.written += n
	if n < len(p) {
		return n, errtrace.Wrap(errWrite)
	}
	return n, nil
}

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	cw := ioutil.NewCountingWriter(buf)

	cw.WriteString("http://")
	cw.Fprint("example.com", ":", 8080)
	cw.Write([]byte("/"))
	cw.Call(func(w io.Writer) (int, error) { return io.WriteString(w, "?a=1") })

	num, err := cw.Result()
	if err != nil {
		t.Fatalf("cw.Result() error = %v, want nil", err)
	}
	if got, want := buf.String(), "http://example.com:8080/?a=1"; got != want {
		t.Errorf("buf.String() = %q, want %q", got, want)
	}
	if num != buf.Len() || cw.Count() != buf.Len() {
		t.Errorf("cw.Result() = %d, cw.Count() = %d, want %d", num, cw.Count(), buf.Len())
	}
}

func TestCountingWriter_StopsAfterError(t *testing.T) {
	t.Parallel()

	cw := ioutil.GetCountingWriter(&errorWriter{failAfter: 4})
	defer ioutil.FreeCountingWriter(cw)

	if n, err := cw.WriteString("abc"); err != nil || n != 3 {
		t.Fatalf("cw.WriteString() = (%d, %v), want (3, nil)", n, err)
	}
	if _, err := cw.WriteString("def"); !errors.Is(err, errWrite) {
		t.Fatalf("cw.WriteString() error = %v, want %v", err, errWrite)
	}

	var called bool
	cw.Call(func(io.Writer) (int, error) {
		called = true
		return 0, nil
	})
	if called {
		t.Error("cw.Call() invoked fn after an error")
	}

	num, err := cw.Result()
	if diff := cmp.Diff(err, errWrite, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("cw.Result() error = %v, want %v\ndiff (-got +want):\n%v", err, errWrite, diff)
	}
	if num != 4 {
		t.Errorf("cw.Result() num = %d, want 4", num)
	}
}
