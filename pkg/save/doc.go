// Package save decodes and encodes Cookie Clicker save exports.
//
// An export is percent-encoded base64 of a '|'-separated record text,
// usually followed by the "!END!" marker. Decode turns it into a Save and
// Encode reproduces the exact text the game would write, so a save can be
// inspected, edited and imported again.
package save
