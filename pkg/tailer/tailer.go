package tailer

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/0xmhha/multitail/pkg/ledger"
	"github.com/0xmhha/multitail/pkg/logger"
	"github.com/0xmhha/multitail/pkg/operr"
	"github.com/0xmhha/multitail/pkg/output"
)

// Tailer performs tail operations against a ledger it does not own.
// It is not safe for concurrent use; call it from the goroutine that owns
// the ledger.
type Tailer struct {
	ledger  *ledger.Ledger
	sink    output.Sink
	tagMode output.TagMode
	logger  logger.Logger

	// stat reads metadata of the opened file.
	stat func(f *os.File) (os.FileInfo, error)
}

// New creates a tailer.
func New(cfg Config, log logger.Logger) (*Tailer, error) {
	if cfg.Ledger == nil {
		return nil, ErrNoLedger
	}
	if cfg.Sink == nil {
		return nil, ErrNoSink
	}
	if cfg.TagMode == "" {
		cfg.TagMode = output.TagDir
	}

	return &Tailer{
		ledger:  cfg.Ledger,
		sink:    cfg.Sink,
		tagMode: cfg.TagMode,
		logger:  log,
		stat:    (*os.File).Stat,
	}, nil
}

// Tail echoes the complete lines appended to path since its ledger offset.
//
// Open, seek and read failures return an *operr.Error and leave the ledger
// exactly as it was. Otherwise the offset is advanced by the bytes of every
// emitted line, which is zero when nothing complete has arrived.
func (t *Tailer) Tail(path string) (Result, error) {
	offset := t.ledger.Get(path)

	// #nosec G304: path comes from the watcher and has been routed
	f, err := os.Open(path) // nolint:gosec
	if err != nil {
		return Result{Offset: offset}, operr.New(operr.OpenFailed, path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			t.logger.Debug("failed to close file", "path", path, "error", closeErr)
		}
	}()

	// A failed fstat on an open handle is part of reading the file and is
	// retried with the next event like any other read failure.
	info, err := t.stat(f)
	if err != nil {
		return Result{Offset: offset}, operr.New(operr.ReadFailed, path, err)
	}
	if !info.Mode().IsRegular() {
		t.logger.Debug("skipping non-regular file", "path", path, "mode", info.Mode().String())
		return Result{Offset: offset}, nil
	}

	if offset > math.MaxInt64 {
		return Result{Offset: offset}, operr.New(operr.SeekFailed, path, ErrOffsetOverflow)
	}
	if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
		return Result{Offset: offset}, operr.New(operr.SeekFailed, path, err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return Result{Offset: offset}, operr.New(operr.ReadFailed, path, err)
	}

	res, emitErr := t.emitLines(path, data)
	res.Offset = offset + res.Consumed
	t.ledger.Set(path, res.Offset)

	if res.Lines > 0 || res.Pending > 0 {
		t.logger.Debug("tailed",
			"path", path,
			"lines", res.Lines,
			"offset", res.Offset,
			"pending", res.Pending)
	}

	if emitErr != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrEmitFailed, path, emitErr)
	}

	return res, nil
}

// emitLines sends every newline-terminated line in data to the sink and
// counts the bytes consumed, terminators included. It stops at the first
// sink failure so an unwritten line is never counted.
func (t *Tailer) emitLines(path string, data []byte) (Result, error) {
	var res Result
	tag := output.TagFor(t.tagMode, path)

	rest := data
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}

		if err := t.sink.Emit(output.Line{Tag: tag, Path: path, Text: string(rest[:i])}); err != nil {
			res.Pending = len(rest)
			return res, err
		}

		res.Lines++
		res.Consumed += uint64(i + 1)
		rest = rest[i+1:]
	}

	res.Pending = len(rest)
	return res, nil
}
