// Package tailer echoes the complete lines appended to a file since its last
// ledger offset.
//
// One Tail call is one tail operation: look up the offset, open the file,
// seek, read to EOF, emit every newline-terminated line and advance the
// offset by exactly the bytes of those lines. A trailing partial line is
// left in place and re-read, completed, on a later call.
//
// Example usage:
//
//	t, err := tailer.New(tailer.Config{
//	    Ledger: l,
//	    Sink:   sink,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := t.Tail("/var/log/app/app.log")
//	if err != nil {
//	    // *operr.Error; the ledger is unchanged and the next event retries
//	}
//	fmt.Printf("%d lines, offset now %d\n", res.Lines, res.Offset)
package tailer

import (
	"github.com/0xmhha/multitail/pkg/ledger"
	"github.com/0xmhha/multitail/pkg/output"
)

// Config contains tailer configuration.
type Config struct {
	// Ledger holds per-file offsets. Required.
	Ledger *ledger.Ledger

	// Sink receives complete lines. Required.
	Sink output.Sink

	// TagMode selects the source tag. Default: dir.
	TagMode output.TagMode
}

// Result describes one tail operation.
type Result struct {
	// Lines is the number of lines emitted.
	Lines int

	// Consumed is the number of bytes the offset advanced by.
	Consumed uint64

	// Offset is the ledger offset after the operation.
	Offset uint64

	// Pending is the number of trailing bytes left without a terminator.
	Pending int
}
