// Package bot plays Cookie Clicker unattended.
//
// A run first resumes from the best stored snapshot when it beats the
// game's own save, then runs three loops until its context ends: periodic
// backups into the snapshot store, clicking the big cookie, and buying
// upgrades and buildings from the store.
package bot
