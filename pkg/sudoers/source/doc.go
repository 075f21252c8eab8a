// Package source mutates the monolithic sudoers file itself.
//
// Mutator removes migrated rule lines via copy-and-swap: the surviving
// lines are written to a temporary file in the same directory, which then
// replaces the original in a single rename. A reader of the sudoers file
// never observes a partially-written state, and a failure at any point
// leaves the original byte-identical.
//
// Backup copies the sudoers file to a timestamped sibling before any
// processing begins.
package source
