// Package repository implements the resource collections on top of the
// SQL database. Create and Update always re-read and return the
// canonical row so callers can reconcile their caches.
package repository

import "github.com/rs/zerolog"

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}
