// Package binout reads LS-Dyna binout containers.
//
// A container is a tree of directories and typed leaves. The top-level
// directories are categories such as "nodout" or "glstat"; each category
// holds an optional "metadata" directory and one directory per state
// partition, written as the simulation advanced. Reading a variable collects
// it from every partition and orders the result by time:
//
//	b, err := binout.Open("binout0000")
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	categories, err := b.Categories()
//	names, err := b.Variables("nodout")
//	s, err := b.Series("nodout", "x_displacement")
package binout

import (
	"errors"

	"github.com/robert-malhotra/go-binout/internal/dtype"
	"github.com/robert-malhotra/go-binout/internal/header"
	"github.com/robert-malhotra/go-binout/internal/query"
	"github.com/robert-malhotra/go-binout/internal/record"
	"github.com/robert-malhotra/go-binout/internal/source"
	"github.com/robert-malhotra/go-binout/internal/tree"
)

// Open errors. A failed open never returns a partially built container.
var (
	ErrFileNotFound    = errors.New("binout file not found")
	ErrMalformedHeader = header.ErrMalformedHeader
	ErrTruncatedRecord = record.ErrTruncatedRecord
	ErrMalformedRecord = record.ErrMalformedRecord
	ErrUnknownCommand  = record.ErrUnknownCommand
	ErrUnknownTypeTag  = dtype.ErrUnknownTypeTag
	ErrUnbalanced      = tree.ErrUnbalanced
	ErrDuplicateLeaf   = tree.ErrDuplicateLeaf
	ErrNameConflict    = tree.ErrNameConflict
	ErrDecompression   = source.ErrDecompression
)

// Query errors. The container stays usable after any of these.
var (
	ErrUnknownCategory = query.ErrUnknownCategory
	ErrUnknownVariable = query.ErrUnknownVariable
	ErrPathTooDeep     = query.ErrPathTooDeep
	ErrMissingTime     = query.ErrMissingTime
	ErrLengthMismatch  = query.ErrLengthMismatch
	ErrTypeMismatch    = query.ErrTypeMismatch
)

var (
	ErrClosed     = errors.New("binout is closed")
	ErrDeprecated = errors.New("deprecated: use Read")
)

// RecordError reports the offset of the record at which a container broke.
type RecordError = record.Error
