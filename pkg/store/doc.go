// Package store keeps timestamped save snapshots in SQLite.
//
// Every snapshot carries its score, cookies baked all time, so the best
// snapshot can be found with an indexed query. Snapshots can also be paged
// through in timestamp order for export.
package store
