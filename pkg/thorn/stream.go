package thorn

import (
	"bufio"
	"io"

	"github.com/thornwire/thorn/internal/wire"
)

// StreamWriter frames a sequence of messages onto an io.Writer, each one
// prefixed with its own length varint — the buffer-exhaustion multi-message
// framing a long-lived connection needs, since a bare concatenation of
// messages would leave a reader with no way to tell where one ends and the
// next begins. A buffered io.Writer plus a sticky error, framed with a
// bijective varint length prefix rather than a fixed-width one.
type StreamWriter struct {
	w    *bufio.Writer
	opts Options
	err  error
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	return NewStreamWriterWithOptions(w, DefaultOptions)
}

func NewStreamWriterWithOptions(w io.Writer, opts Options) *StreamWriter {
	return &StreamWriter{w: bufio.NewWriter(w), opts: opts}
}

func (sw *StreamWriter) Err() error { return sw.err }

func (sw *StreamWriter) setError(err error) {
	if sw.err == nil {
		sw.err = err
	}
}

// WriteMessage encodes m and writes it length-prefixed to the stream.
func (sw *StreamWriter) WriteMessage(m Message) error {
	if sw.err != nil {
		return sw.err
	}
	data, err := MarshalWithOptions(m, sw.opts)
	if err != nil {
		sw.setError(err)
		return err
	}
	prefix := wire.AppendUvarint(nil, uint64(len(data)))
	if _, err := sw.w.Write(prefix); err != nil {
		sw.setError(err)
		return err
	}
	if _, err := sw.w.Write(data); err != nil {
		sw.setError(err)
		return err
	}
	return nil
}

func (sw *StreamWriter) Flush() error {
	if err := sw.w.Flush(); err != nil {
		sw.setError(err)
		return err
	}
	return sw.err
}

// StreamReader reads back messages framed by StreamWriter.
type StreamReader struct {
	r    *bufio.Reader
	opts Options
	err  error
}

func NewStreamReader(r io.Reader) *StreamReader {
	return NewStreamReaderWithOptions(r, DefaultOptions)
}

func NewStreamReaderWithOptions(r io.Reader, opts Options) *StreamReader {
	return &StreamReader{r: bufio.NewReader(r), opts: opts}
}

func (sr *StreamReader) Err() error { return sr.err }

func (sr *StreamReader) setError(err error) {
	if sr.err == nil {
		sr.err = err
	}
}

// readVarint decodes one bijective varint directly off the buffered
// io.Reader a byte at a time, since internal/wire's DecodeUvarint expects a
// materialized slice rather than a stream.
func (sr *StreamReader) readVarint() (uint64, error) {
	var value uint64
	for i := 0; i < 8; i++ {
		b, err := sr.r.ReadByte()
		if err != nil {
			return 0, err
		}
		value += uint64(b) << (uint(i) * 7)
		if b < 0x80 {
			return value, nil
		}
	}
	b, err := sr.r.ReadByte()
	if err != nil {
		return 0, err
	}
	sum := value + uint64(b)<<56
	if sum < value {
		return 0, wire.ErrVarintOverflow
	}
	return sum, nil
}

// ReadMessage reads one length-prefixed message into m.
func (sr *StreamReader) ReadMessage(m Message) error {
	if sr.err != nil {
		return sr.err
	}
	length, err := sr.readVarint()
	if err != nil {
		sr.setError(err)
		return err
	}
	if sr.opts.Limits.MaxMessageSize > 0 && int64(length) > sr.opts.Limits.MaxMessageSize {
		err := NewDecodeError(Oversize)
		sr.setError(err)
		return err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(sr.r, buf); err != nil {
		sr.setError(err)
		return err
	}
	if err := UnmarshalWithOptions(buf, m, sr.opts); err != nil {
		sr.setError(err)
		return err
	}
	return nil
}

// MessageIterator adapts StreamReader to the idiomatic Go "for it.Next(msg)"
// iteration style, stopping cleanly at io.EOF rather than treating it as a
// stream error.
type MessageIterator struct {
	sr  *StreamReader
	err error
}

func NewMessageIterator(r io.Reader) *MessageIterator {
	return &MessageIterator{sr: NewStreamReader(r)}
}

// Next decodes the next message into m, returning false when the stream is
// exhausted (Err returns nil) or a decode error occurred (Err returns it).
func (it *MessageIterator) Next(m Message) bool {
	if err := it.sr.ReadMessage(m); err != nil {
		if err != io.EOF {
			it.err = err
		}
		return false
	}
	return true
}

func (it *MessageIterator) Err() error { return it.err }
