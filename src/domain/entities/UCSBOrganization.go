package entities

type UCSBOrganization struct {
	ID                  int64  `json:"id"`
	OrgCode             string `json:"orgCode" validate:"required"`
	OrgTranslationShort string `json:"orgTranslationShort" validate:"required"`
	OrgTranslation      string `json:"orgTranslation" validate:"required"`
	Inactive            bool   `json:"inactive"`
}

func (o UCSBOrganization) RecordID() int64 {
	return o.ID
}

func (o UCSBOrganization) WithID(id int64) UCSBOrganization {
	o.ID = id
	return o
}
