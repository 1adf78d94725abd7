// Package memstore is an in-memory implementation of the store interfaces.
//
// A Session holds any number of named databases. With WithDir, a database
// is loaded from "<dir>/<name>.fdb" on first open and written back when a
// writable handle that changed it is closed. The file layout is defined by
// package internal/dbfile.
//
// Basic usage:
//
//	sess, err := memstore.New(memstore.WithDir("/var/lib/fameport"))
//	if err != nil {
//		return err
//	}
//	cat, report, err := catalog.Read(sess, "econ")
//
// Object and database names are case-insensitive and stored uppercase.
package memstore
