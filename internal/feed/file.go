package feed

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vovakirdan/arena-client/internal/protocol"
)

// maxLine bounds one recorded message. A 200x200 board fits comfortably.
const maxLine = 4 << 20

// FileSource replays a JSON-lines recording, one server message per line.
// Blank lines are skipped.
type FileSource struct {
	sc     *bufio.Scanner
	closer io.Closer
	line   int
}

// NewFileSource reads a recording from r. If r is an io.Closer, Close
// closes it.
func NewFileSource(r io.Reader) *FileSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	fs := &FileSource{sc: sc}
	if c, ok := r.(io.Closer); ok {
		fs.closer = c
	}
	return fs
}

// OpenFile opens a recording on disk.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: open recording: %w", err)
	}
	return NewFileSource(f), nil
}

// Next decodes the next message.
func (s *FileSource) Next(ctx context.Context) (protocol.EventResponse, error) {
	for {
		if err := ctx.Err(); err != nil {
			return protocol.EventResponse{}, err
		}
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return protocol.EventResponse{}, fmt.Errorf("feed: read line %d: %w", s.line+1, err)
			}
			return protocol.EventResponse{}, io.EOF
		}
		s.line++
		data := bytes.TrimSpace(s.sc.Bytes())
		if len(data) == 0 {
			continue
		}
		resp, err := protocol.Decode(data)
		if err != nil {
			return protocol.EventResponse{}, fmt.Errorf("feed: line %d: %w", s.line, err)
		}
		return resp, nil
	}
}

// Close releases the underlying reader.
func (s *FileSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Recorder writes server messages in the format FileSource reads.
type Recorder struct {
	w     *bufio.Writer
	c     io.Closer
	count int
}

// NewRecorder writes to w. If w is an io.Closer, Close closes it.
func NewRecorder(w io.Writer) *Recorder {
	r := &Recorder{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		r.c = c
	}
	return r
}

// CreateFile creates (or truncates) a recording on disk.
func CreateFile(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("feed: create recording: %w", err)
	}
	return NewRecorder(f), nil
}

// Record appends one message.
func (r *Recorder) Record(resp protocol.EventResponse) error {
	data, err := protocol.Encode(resp)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("feed: write recording: %w", err)
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("feed: write recording: %w", err)
	}
	r.count++
	return nil
}

// Count returns the number of messages recorded so far.
func (r *Recorder) Count() int {
	return r.count
}

// Close flushes buffered messages and closes the destination.
func (r *Recorder) Close() error {
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("feed: flush recording: %w", err)
	}
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}

// Copy pulls messages from src into rec until src is exhausted or limit
// messages were copied (limit <= 0 means no limit). It returns the number
// copied.
func Copy(ctx context.Context, rec *Recorder, src Source, limit int) (int, error) {
	n := 0
	for limit <= 0 || n < limit {
		resp, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := rec.Record(resp); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
