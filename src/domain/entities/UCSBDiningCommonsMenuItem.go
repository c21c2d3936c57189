package entities

// UCSBDiningCommonsMenuItem é um item de cardápio servido em uma estação de um refeitório.
type UCSBDiningCommonsMenuItem struct {
	ID                int64  `json:"id"`
	DiningCommonsCode string `json:"diningCommonsCode" validate:"required"`
	Name              string `json:"name" validate:"required"`
	Station           string `json:"station" validate:"required"`
}

func (m UCSBDiningCommonsMenuItem) RecordID() int64 {
	return m.ID
}

func (m UCSBDiningCommonsMenuItem) WithID(id int64) UCSBDiningCommonsMenuItem {
	m.ID = id
	return m
}
