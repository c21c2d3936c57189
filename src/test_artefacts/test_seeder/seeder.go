package test_seeder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"campusrecords/src/helper/env"
	"campusrecords/src/infra/postgres"
)

type TestSeeder struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) TestSeeder {
	return TestSeeder{pool: pool}
}

// Connect abre o banco de teste descrito pelas variáveis TEST_DB_*.
// ok é falso quando TEST_DB_WRITE_HOST não está definido; os testes de integração
// devem chamar Skip nesse caso.
func Connect() (client *postgres.ReadWriteClient, ok bool, err error) {
	dbWriteHost := env.GetString("TEST_DB_WRITE_HOST")
	if dbWriteHost == "" {
		return nil, false, nil
	}

	dbReadHost := env.GetString("TEST_DB_READ_HOST", dbWriteHost)
	dbReadPort := env.GetString("TEST_DB_READ_PORT", "5432")
	dbWritePort := env.GetString("TEST_DB_WRITE_PORT", "5432")
	dbname := env.MustGetString("TEST_DB_NAME")
	dbUser := env.MustGetString("TEST_DB_USER")
	dbPassword := env.MustGetString("TEST_DB_PASSWORD")
	maxConnections := env.GetInt("TEST_DB_MAX_POOL_CONNECTIONS", 5)

	client, err = postgres.NewReadWriteClient(dbReadHost, dbWriteHost, dbReadPort, dbWritePort, dbname, dbUser, dbPassword, maxConnections)
	return client, true, err
}

func (ts TestSeeder) TruncateTables(ctx context.Context) {
	tables := []string{
		"record_changes",
		"menuitemreview",
		"ucsbdiningcommonsmenuitem",
		"ucsborganization",
		"recommendationrequest",
	}

	for _, table := range tables {
		_, err := ts.pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		if err != nil {
			panic(fmt.Sprintf("Failed to truncate %s: %v", table, err))
		}
	}
}
