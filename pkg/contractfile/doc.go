// Package contractfile implements cross-process safe writing of Pact
// contract files to disk: advisory locking so two consumer test runs
// writing the same "{consumer}-{provider}.json" file don't clobber each
// other, a stable-key interaction merge, and an atomic rename-based
// write so a reader never observes a half-written file.
package contractfile
