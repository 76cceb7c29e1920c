// Package format provides the building blocks of the save-format codec:
// primitive text conversions, field-level transcoding strategies and a
// declarative record codec driven by an ordered list of field specs.
//
// Every codec implements Format, a pair of pure functions converting one
// piece of save text to a typed value and back. Records compose formats:
//
//	type point struct{ X, Y uint64 }
//
//	var pointFormat = format.NewRecord("point", ",", []format.FieldSpec[point]{
//		format.Field("x", format.Uint64(), func(p *point) *uint64 { return &p.X }),
//		format.Field("y", format.Uint64(), func(p *point) *uint64 { return &p.Y }),
//	})
//
// The save text must survive a decode/encode cycle byte for byte.
// CheckInverse verifies that property for any format, checking each field
// of a record on its own before the record as a whole.
package format
