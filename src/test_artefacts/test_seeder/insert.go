package test_seeder

import (
	"context"
	"fmt"

	"campusrecords/src/domain/entities"
)

// InsertOrganization grava a organização diretamente, sem passar pelo repositório.
func (ts TestSeeder) InsertOrganization(ctx context.Context, organization *entities.UCSBOrganization) {
	query := `
		INSERT INTO ucsborganization (org_code, org_translation_short, org_translation, inactive)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := ts.pool.QueryRow(ctx, query,
		organization.OrgCode,
		organization.OrgTranslationShort,
		organization.OrgTranslation,
		organization.Inactive,
	).Scan(&organization.ID)

	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertOrganization failed: %v", err))
	}
}

func (ts TestSeeder) InsertMenuItem(ctx context.Context, item *entities.UCSBDiningCommonsMenuItem) {
	query := `
		INSERT INTO ucsbdiningcommonsmenuitem (dining_commons_code, name, station)
		VALUES ($1, $2, $3) RETURNING id`

	err := ts.pool.QueryRow(ctx, query, item.DiningCommonsCode, item.Name, item.Station).Scan(&item.ID)
	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertMenuItem failed: %v", err))
	}
}

// UpdateOrganizationShort altera a linha por fora do repositório, deixando o cache desatualizado.
func (ts TestSeeder) UpdateOrganizationShort(ctx context.Context, id int64, short string) {
	_, err := ts.pool.Exec(ctx, `UPDATE ucsborganization SET org_translation_short = $1 WHERE id = $2`, short, id)
	if err != nil {
		panic(fmt.Sprintf("Seeder.UpdateOrganizationShort failed: %v", err))
	}
}
