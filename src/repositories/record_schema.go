package repositories

import (
	"fmt"
	"strings"
	"time"

	"campusrecords/src/domain/entities"
	"campusrecords/src/infra/postgres"
)

// Record é a restrição genérica dos tipos persistidos: id numérico atribuído pelo banco.
type Record[T any] interface {
	RecordID() int64
	WithID(id int64) T
}

// RowScanner é satisfeito por pgx.Row e pgx.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// RecordSchema descreve como um tipo de registro é mapeado para a sua tabela.
// Columns não inclui "id"; Values e Scan seguem a mesma ordem de Columns
// (Scan recebe "id" primeiro).
type RecordSchema[T any] struct {
	RecordType  string
	DisplayName string
	Table       string
	Columns     []string
	Values      func(record T) []any
	Scan        func(row RowScanner) (T, error)
}

// Name é o nome legível do tipo nas mensagens: DisplayName ou, se vazio, RecordType.
func (s RecordSchema[T]) Name() string {
	if s.DisplayName == "" {
		return s.RecordType
	}
	return s.DisplayName
}

func (s RecordSchema[T]) selectColumns() string {
	return "id, " + strings.Join(s.Columns, ", ")
}

func (s RecordSchema[T]) selectAllQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY id", s.selectColumns(), s.Table)
}

func (s RecordSchema[T]) selectByIDQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", s.selectColumns(), s.Table)
}

func (s RecordSchema[T]) insertQuery() string {
	placeholders := make([]string, len(s.Columns))
	for i := range s.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		s.Table, strings.Join(s.Columns, ", "), strings.Join(placeholders, ", "), s.selectColumns())
}

func (s RecordSchema[T]) updateQuery() string {
	assignments := make([]string, len(s.Columns))
	for i, column := range s.Columns {
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		s.Table, strings.Join(assignments, ", "), len(s.Columns)+1, s.selectColumns())
}

func (s RecordSchema[T]) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.Table)
}

// ############################################################
// ################ SCHEMAS DOS REGISTROS #####################
// ############################################################

var RecommendationRequestSchema = RecordSchema[entities.RecommendationRequest]{
	RecordType:  "RecommendationRequest",
	DisplayName: "Recommendation Request",
	Table:       "recommendationrequest",
	Columns:     []string{"requester_email", "professor_email", "explanation", "date_requested", "date_needed", "done"},
	Values: func(r entities.RecommendationRequest) []any {
		return []any{r.RequesterEmail, r.ProfessorEmail, r.Explanation, r.DateRequested.Time, r.DateNeeded.Time, r.Done}
	},
	Scan: func(row RowScanner) (entities.RecommendationRequest, error) {
		var (
			r                         entities.RecommendationRequest
			dateRequested, dateNeeded time.Time
		)
		err := row.Scan(&r.ID, &r.RequesterEmail, &r.ProfessorEmail, &r.Explanation, &dateRequested, &dateNeeded, &r.Done)
		r.DateRequested = entities.NewLocalDateTime(dateRequested)
		r.DateNeeded = entities.NewLocalDateTime(dateNeeded)
		return r, err
	},
}

var UCSBDiningCommonsMenuItemSchema = RecordSchema[entities.UCSBDiningCommonsMenuItem]{
	RecordType: "UCSBDiningCommonsMenuItem",
	Table:      "ucsbdiningcommonsmenuitem",
	Columns:    []string{"dining_commons_code", "name", "station"},
	Values: func(m entities.UCSBDiningCommonsMenuItem) []any {
		return []any{m.DiningCommonsCode, m.Name, m.Station}
	},
	Scan: func(row RowScanner) (entities.UCSBDiningCommonsMenuItem, error) {
		var m entities.UCSBDiningCommonsMenuItem
		err := row.Scan(&m.ID, &m.DiningCommonsCode, &m.Name, &m.Station)
		return m, err
	},
}

var UCSBOrganizationSchema = RecordSchema[entities.UCSBOrganization]{
	RecordType: "UCSBOrganization",
	Table:      "ucsborganization",
	Columns:    []string{"org_code", "org_translation_short", "org_translation", "inactive"},
	Values: func(o entities.UCSBOrganization) []any {
		return []any{o.OrgCode, o.OrgTranslationShort, o.OrgTranslation, o.Inactive}
	},
	Scan: func(row RowScanner) (entities.UCSBOrganization, error) {
		var o entities.UCSBOrganization
		err := row.Scan(&o.ID, &o.OrgCode, &o.OrgTranslationShort, &o.OrgTranslation, &o.Inactive)
		return o, err
	},
}

var MenuItemReviewSchema = RecordSchema[entities.MenuItemReview]{
	RecordType: "MenuItemReview",
	Table:      "menuitemreview",
	Columns:    []string{"item_id", "reviewer_email", "stars", "date_reviewed", "comments"},
	Values: func(r entities.MenuItemReview) []any {
		return []any{r.ItemID, r.ReviewerEmail, r.Stars, r.DateReviewed.Time, postgres.NewNullString(r.Comments)}
	},
	Scan: func(row RowScanner) (entities.MenuItemReview, error) {
		var (
			r            entities.MenuItemReview
			dateReviewed time.Time
			comments     *string
		)
		err := row.Scan(&r.ID, &r.ItemID, &r.ReviewerEmail, &r.Stars, &dateReviewed, &comments)
		r.DateReviewed = entities.NewLocalDateTime(dateReviewed)
		if comments != nil {
			r.Comments = *comments
		}
		return r, err
	},
}
