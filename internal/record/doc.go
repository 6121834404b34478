// Package record walks the flat record stream of a binout container.
//
// After the header prefix, a container is a sequence of records:
//
//	[length : L][command : C][payload : length-L-C]
//
// where L and C are the length and command widths declared by the header.
// The length counts the whole record including its own field.
//
// # Commands
//
//	Code | Command        | Payload
//	-----|----------------|-----------------------------------------------
//	1    | BeginDirectory | directory name
//	2    | EndDirectory   | empty
//	3    | WriteValue     | [tag : T][name len : 1][name][raw values]
//	4    | DefineVariable | [name len : 1][name][tag : T][offset : O][count : L]
//	5    | Blob           | opaque bytes referenced by DefineVariable
//
// T and O are the type-tag and offset widths. A WriteValue record carries its
// values inline; a DefineVariable record points at count elements stored at
// an absolute offset, normally inside a Blob.
//
// # Walking
//
// A [Walker] reads records from the data offset to the end of the container
// and reports them as [Event] values: EnterDirectory, ExitDirectory and Leaf.
// It does not track nesting; balancing is the consumer's job. A record that
// cannot be read in full is [ErrTruncatedRecord] and produces no event.
//
// In lazy mode Leaf events carry only the [Span] of their raw values, which
// a consumer later decodes with [Walker.Load].
//
// All errors are wrapped in [*Error] carrying the record offset.
package record
