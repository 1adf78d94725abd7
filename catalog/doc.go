// Package catalog moves objects between a store database and an in-memory
// Catalog of records.
//
// Read walks the objects matching a wildcard and fetches each payload with
// the store's size-then-resize protocol for variable-length values. Write
// allocates every record of a catalog in a target database and populates it.
// Both report per-object outcomes through the configured slog.Logger.
//
// Basic usage:
//
//	cat, report, err := catalog.Read(sess, "in.db", catalog.WithPattern("GDP?"))
//	if err != nil {
//		return err
//	}
//	for _, o := range report.Outcomes {
//		fmt.Println(o.Name, o.Kind)
//	}
//	err = catalog.Write(sess, "out.db", cat)
//
// Get, PutSeries and PutScalar convert between records and host values
// indexed by tsrange.Index.
package catalog
