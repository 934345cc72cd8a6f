package serial

import (
	"bytes"
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func runReader(t *testing.T, input string, box *Mailbox, busy func(string)) *Reader {
	t.Helper()
	r := NewReader(strings.NewReader(input), box, busy)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return r
}

func TestMailboxSingleSlot(t *testing.T) {
	c := qt.New(t)
	box := NewMailbox()

	_, ok := box.Take()
	c.Assert(ok, qt.Equals, false)

	c.Assert(box.Put("get time"), qt.Equals, true)
	c.Assert(box.Put("get date"), qt.Equals, false)

	line, ok := box.Take()
	c.Assert(ok, qt.Equals, true)
	c.Assert(line, qt.Equals, "get time")

	c.Assert(box.Put("get date"), qt.Equals, true)
	c.Assert(<-box.C(), qt.Equals, "get date")
}

func TestReaderLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lf", "get time\n", "get time"},
		{"crlf", "get time\r\n", "get time"},
		{"cr", "get time\r", "get time"},
		{"no terminator", "get time", "get time"},
		{"padded", "  set alarm 07:30:00 \n", "set alarm 07:30:00"},
		{"blank lines skipped", "\r\n\r\n?\r\n", "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewMailbox()
			runReader(t, tt.input, box, nil)
			got, ok := box.Take()
			if !ok {
				t.Fatal("no line delivered")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReaderBusyDropsLine(t *testing.T) {
	c := qt.New(t)
	box := NewMailbox()
	var rejected []string
	r := runReader(t, "get time\nget date\nget alarm\n", box, func(l string) {
		rejected = append(rejected, l)
	})

	line, _ := box.Take()
	c.Assert(line, qt.Equals, "get time")
	c.Assert(rejected, qt.DeepEquals, []string{"get date", "get alarm"})
	c.Assert(r.Dropped(), qt.Equals, 2)
}

func TestReaderDiscardsOverlongLine(t *testing.T) {
	c := qt.New(t)
	box := NewMailbox()
	long := strings.Repeat("x", 3*MaxLine)
	r := runReader(t, long+"\nget time\n", box, nil)

	line, ok := box.Take()
	c.Assert(ok, qt.Equals, true)
	c.Assert(line, qt.Equals, "get time")
	c.Assert(r.Overlong(), qt.Equals, 1)
}

func TestReaderStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	box := NewMailbox()
	r := NewReader(strings.NewReader("get time\n"), box, nil)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := box.Take(); ok {
		t.Error("line delivered after cancel")
	}
}

func TestWriterAppendsLineEnding(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	w := NewWriter(&buf)

	c.Assert(w.WriteLine("2023-06-11"), qt.IsNil)
	c.Assert(w.WriteLines([]string{"a", "b"}), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "2023-06-11\r\na\r\nb\r\n")
}

func TestOpenStdio(t *testing.T) {
	c := qt.New(t)
	port, err := Open(Config{Device: Stdio})
	c.Assert(err, qt.IsNil)
	c.Assert(port.Close(), qt.IsNil)
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open(Config{Device: "/nonexistent/tty-seg-clock", Baud: 9600})
	if err == nil {
		t.Fatal("expected error for missing device")
	}
	if !strings.Contains(err.Error(), "/nonexistent/tty-seg-clock") {
		t.Errorf("error does not name the device: %v", err)
	}
}
