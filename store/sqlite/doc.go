// Package sqlite stores research run checkpoints in a SQLite file through
// mattn/go-sqlite3. The table is created on open.
//
//	cps, err := sqlite.NewSqliteCheckpointStore(sqlite.SqliteOptions{
//		Path: "./shiporskip.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer cps.Close()
package sqlite
