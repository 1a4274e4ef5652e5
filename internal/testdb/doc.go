// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Tests call GetTestDBWithT, which skips the test unless POCKETDOC_TEST_DB_URL (or
// DATABASE_URL) is set, applies the embedded migrations once per
// connection, and closes the connection on cleanup. WithTx then runs the test
// body inside a transaction that is always rolled back, so tests leave no
// data behind and can run in parallel.
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			s := postgres.NewDocumentStore(tx, nil)
//			// ...
//		})
//	}
package testdb
