//go:build datagen_postgres
// +build datagen_postgres

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"campusrecords/src/domain/entities"
	"campusrecords/src/helper/env"
	"campusrecords/src/infra/postgres"
	"campusrecords/src/repositories"
)

// DataBundle agrupa um item de cardápio com suas avaliações e os demais registros gerados junto.
type DataBundle struct {
	MenuItem     entities.UCSBDiningCommonsMenuItem
	Reviews      []entities.MenuItemReview
	Organization entities.UCSBOrganization
	Request      entities.RecommendationRequest
}

var (
	diningCommons = []string{"carrillo", "de-la-guerra", "ortega", "portola"}
	stations      = []string{"Entree Specials", "Grill (Cafe)", "Salad Bar", "Bakery", "Taqueria", "Vegan Entree"}
)

func newSQLClient() (*pgxpool.Pool, error) {
	dbHost := env.MustGetString("DB_WRITE_HOST")
	dbPort := env.GetString("DB_WRITE_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := 20
	return postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
}

func main() {
	_ = godotenv.Load()

	numBundles := flag.Int("bundles", 1000, "Número de itens de cardápio (com avaliações) a gerar. Use -1 para infinito.")
	bulkSize := flag.Int("bulk-size", 200, "Bundles por transação")
	reviewsPerItem := flag.Int("reviews-per-item", 3, "Máximo de avaliações por item")
	numConsumers := flag.Int("consumers", 4, "Número de consumers gravando em paralelo")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := newSQLClient()
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	dataChan := make(chan DataBundle, (*bulkSize)*(*numConsumers))

	var wg sync.WaitGroup
	var totalProcessed, totalErrors int64
	startTime := time.Now()

	for i := 0; i < *numConsumers; i++ {
		wg.Add(1)
		go consumer(ctx, &wg, db, dataChan, *bulkSize, i+1, &totalProcessed, &totalErrors)
	}

	wg.Add(1)
	go producer(ctx, &wg, dataChan, *numBundles, *reviewsPerItem)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutdown signal received, stopping...")
		cancel()
	}()

	wg.Wait()

	elapsed := time.Since(startTime)
	processed := atomic.LoadInt64(&totalProcessed)

	fmt.Printf("\nSeeding finished!\n")
	fmt.Printf("Total bundles: %d\n", processed)
	fmt.Printf("Total errors: %d\n", atomic.LoadInt64(&totalErrors))
	fmt.Printf("Total time: %v\n", elapsed.Round(time.Second))
	fmt.Printf("Average rate: %.1f bundles/s\n", float64(processed)/elapsed.Seconds())
}

func producer(ctx context.Context, wg *sync.WaitGroup, dataChan chan<- DataBundle, numBundles, reviewsPerItem int) {
	defer wg.Done()
	defer close(dataChan)

	isInfinite := numBundles == -1

	for count := 0; isInfinite || count < numBundles; count++ {
		bundle := DataBundle{
			MenuItem:     generateFakeMenuItem(),
			Organization: generateFakeOrganization(count),
			Request:      generateFakeRecommendationRequest(),
		}
		for i := 0; i < rand.Intn(reviewsPerItem+1); i++ {
			bundle.Reviews = append(bundle.Reviews, generateFakeReview())
		}

		select {
		case dataChan <- bundle:
			if (count+1)%500 == 0 {
				fmt.Printf("Generated %d bundles\n", count+1)
			}
		case <-ctx.Done():
			fmt.Println("Producer stopping.")
			return
		}
	}
}

func consumer(ctx context.Context, wg *sync.WaitGroup, db *pgxpool.Pool, dataChan <-chan DataBundle, bulkSize, consumerID int, totalProcessed, totalErrors *int64) {
	defer wg.Done()

	bundles := make([]DataBundle, 0, bulkSize)
	flush := func() {
		if len(bundles) == 0 {
			return
		}
		if err := bulkInsert(ctx, db, bundles); err != nil {
			log.Printf("Consumer %d: ERROR on bulk insert: %v", consumerID, err)
			atomic.AddInt64(totalErrors, 1)
		} else {
			atomic.AddInt64(totalProcessed, int64(len(bundles)))
		}
		bundles = make([]DataBundle, 0, bulkSize)
	}

	for {
		select {
		case b, ok := <-dataChan:
			if !ok {
				flush()
				return
			}
			bundles = append(bundles, b)
			if len(bundles) >= bulkSize {
				flush()
			}
		case <-ctx.Done():
			return
		}
	}
}

// bulkInsert grava o lote numa transação. Itens de cardápio entram primeiro para que
// as avaliações referenciem os ids gerados.
func bulkInsert(ctx context.Context, db *pgxpool.Pool, bundles []DataBundle) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	menuItemSchema := repositories.UCSBDiningCommonsMenuItemSchema
	batch := &pgx.Batch{}
	for _, b := range bundles {
		batch.Queue(
			fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1, $2, $3) RETURNING id", menuItemSchema.Table, strings.Join(menuItemSchema.Columns, ", ")),
			menuItemSchema.Values(b.MenuItem)...,
		)
	}

	results := tx.SendBatch(ctx, batch)
	itemIDs := make([]int64, len(bundles))
	for i := range bundles {
		if err := results.QueryRow().Scan(&itemIDs[i]); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert menu item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	var reviewRows, organizationRows, requestRows [][]any
	for i, b := range bundles {
		for _, review := range b.Reviews {
			review.ItemID = itemIDs[i]
			reviewRows = append(reviewRows, repositories.MenuItemReviewSchema.Values(review))
		}
		organizationRows = append(organizationRows, repositories.UCSBOrganizationSchema.Values(b.Organization))
		requestRows = append(requestRows, repositories.RecommendationRequestSchema.Values(b.Request))
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{repositories.MenuItemReviewSchema.Table, repositories.MenuItemReviewSchema.Columns, reviewRows},
		{repositories.UCSBOrganizationSchema.Table, repositories.UCSBOrganizationSchema.Columns, organizationRows},
		{repositories.RecommendationRequestSchema.Table, repositories.RecommendationRequestSchema.Columns, requestRows},
	}

	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("failed to copy into %s: %w", c.table, err)
		}
	}

	return tx.Commit(ctx)
}

func generateFakeMenuItem() entities.UCSBDiningCommonsMenuItem {
	return entities.UCSBDiningCommonsMenuItem{
		DiningCommonsCode: diningCommons[rand.Intn(len(diningCommons))],
		Name:              faker.Word() + " " + faker.Word(),
		Station:           stations[rand.Intn(len(stations))],
	}
}

func generateFakeReview() entities.MenuItemReview {
	review := entities.MenuItemReview{
		ReviewerEmail: faker.Email(),
		Stars:         rand.Intn(6),
		DateReviewed:  entities.NewLocalDateTime(time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour).Truncate(time.Second)),
	}
	if rand.Intn(3) > 0 {
		review.Comments = faker.Sentence()
	}
	return review
}

// O índice entra no código para respeitar a unicidade de org_code.
func generateFakeOrganization(index int) entities.UCSBOrganization {
	name := faker.LastName() + " " + faker.Word()
	return entities.UCSBOrganization{
		OrgCode:             fmt.Sprintf("%s%d", strings.ToUpper(faker.Word()), index),
		OrgTranslationShort: strings.ToUpper(name),
		OrgTranslation:      name + " Association",
		Inactive:            rand.Intn(10) == 0,
	}
}

func generateFakeRecommendationRequest() entities.RecommendationRequest {
	requested := time.Now().Add(-time.Duration(rand.Intn(60*24)) * time.Hour).Truncate(time.Second)
	return entities.RecommendationRequest{
		RequesterEmail: faker.Email(),
		ProfessorEmail: faker.Email(),
		Explanation:    faker.Sentence(),
		DateRequested:  entities.NewLocalDateTime(requested),
		DateNeeded:     entities.NewLocalDateTime(requested.Add(time.Duration(7+rand.Intn(60)) * 24 * time.Hour)),
		Done:           rand.Intn(2) == 0,
	}
}
