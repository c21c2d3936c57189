package http

import (
	"campusrecords/src/domain/entities"
)

func DecodeRecommendationRequest(form *FormReader) entities.RecommendationRequest {
	return entities.RecommendationRequest{
		RequesterEmail: form.String("requesterEmail"),
		ProfessorEmail: form.String("professorEmail"),
		Explanation:    form.String("explanation"),
		DateRequested:  form.LocalDateTime("dateRequested"),
		DateNeeded:     form.LocalDateTime("dateNeeded"),
		Done:           form.Bool("done"),
	}
}

func DecodeUCSBDiningCommonsMenuItem(form *FormReader) entities.UCSBDiningCommonsMenuItem {
	return entities.UCSBDiningCommonsMenuItem{
		DiningCommonsCode: form.String("diningCommonsCode"),
		Name:              form.String("name"),
		Station:           form.String("station"),
	}
}

func DecodeUCSBOrganization(form *FormReader) entities.UCSBOrganization {
	return entities.UCSBOrganization{
		OrgCode:             form.String("orgCode"),
		OrgTranslationShort: form.String("orgTranslationShort"),
		OrgTranslation:      form.String("orgTranslation"),
		Inactive:            form.Bool("inactive"),
	}
}

// comments é opcional.
func DecodeMenuItemReview(form *FormReader) entities.MenuItemReview {
	return entities.MenuItemReview{
		ItemID:        form.Int64("itemId"),
		ReviewerEmail: form.String("reviewerEmail"),
		Stars:         form.Int("stars"),
		DateReviewed:  form.LocalDateTime("dateReviewed"),
		Comments:      form.String("comments"),
	}
}
