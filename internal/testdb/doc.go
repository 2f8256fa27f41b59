// Package testdb provides utilities for database tests.
//
// Postgres tests run in a transaction that is rolled back when the test
// completes, so they can run in parallel without cleanup:
//
//	func TestAppend(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        logStore := postgres.NewPostgresReviewLogStore(tx, nil)
//	        // ...
//	    })
//	}
//
// GetTestDBWithT skips the test when neither REPEAT_DATABASE_URL nor
// DATABASE_URL is set. SQLite tests use OpenSQLiteWithT, which always
// works against a file in the test's temporary directory.
package testdb
