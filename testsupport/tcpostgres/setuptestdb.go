//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/bikechallenge/pkg/db/migrate"
	database "github.com/mpapenbr/bikechallenge/pkg/db/postgres"
)

// SetupTestDb starts the shared test container, applies the migrations and
// returns a pool for it.
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	db, err := StartLeaderboardDB(ctx, WithName("bikechallenge-test"))
	if err != nil {
		log.Fatal(err)
	}
	dbUrl, err := db.DatabaseURL(ctx)
	if err != nil {
		log.Fatal(err)
	}
	return migrateAndConnect(dbUrl)
}

// SetupExternalTestDb uses the database given by TESTDB_URL.
func SetupExternalTestDb() *pgxpool.Pool {
	dbUrl := os.Getenv("TESTDB_URL")
	if dbUrl == "" {
		log.Fatal("TESTDB_URL not set")
	}
	return migrateAndConnect(dbUrl)
}

func migrateAndConnect(dbUrl string) *pgxpool.Pool {
	if err := migrate.MigrateDb(dbUrl); err != nil {
		log.Fatal(err)
	}
	return database.InitWithUrl(dbUrl)
}

func ClearLeaderboardTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from leaderboard_entry")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearLeaderboardTable(pool)
}
