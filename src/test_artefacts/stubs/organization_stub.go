package stubs

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"campusrecords/src/domain/entities"
)

type OrganizationStub struct {
	organization entities.UCSBOrganization
}

func NewOrganizationStub() OrganizationStub {
	name := gofakeit.Company()

	organization := entities.UCSBOrganization{
		OrgCode:             strings.ToUpper(gofakeit.LetterN(4)),
		OrgTranslationShort: name,
		OrgTranslation:      name + " " + gofakeit.CompanySuffix(),
		Inactive:            gofakeit.Bool(),
	}

	return OrganizationStub{organization: organization}
}

func (s OrganizationStub) WithOrgCode(orgCode string) OrganizationStub {
	s.organization.OrgCode = orgCode
	return s
}

func (s OrganizationStub) WithInactive(inactive bool) OrganizationStub {
	s.organization.Inactive = inactive
	return s
}

func (s OrganizationStub) Get() entities.UCSBOrganization {
	return s.organization
}
