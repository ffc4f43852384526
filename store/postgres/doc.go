// Package postgres stores research run checkpoints in PostgreSQL through a
// pgx connection pool. State is kept in a JSONB column.
//
//	cps, err := postgres.NewPostgresCheckpointStore(ctx, postgres.PostgresOptions{
//		ConnString: os.Getenv("DATABASE_URL"),
//	})
//	if err != nil {
//		return err
//	}
//	defer cps.Close()
//	if err := cps.InitSchema(ctx); err != nil {
//		return err
//	}
//
// DBPool lets tests substitute pgxmock for the pool.
package postgres
