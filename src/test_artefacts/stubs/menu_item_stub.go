package stubs

import (
	"github.com/brianvoe/gofakeit/v6"

	"campusrecords/src/domain/entities"
)

var diningCommonsCodes = []string{"ortega", "portola", "de-la-guerra", "carrillo"}

type MenuItemStub struct {
	menuItem entities.UCSBDiningCommonsMenuItem
}

func NewMenuItemStub() MenuItemStub {
	menuItem := entities.UCSBDiningCommonsMenuItem{
		DiningCommonsCode: gofakeit.RandomString(diningCommonsCodes),
		Name:              gofakeit.Dinner(),
		Station:           gofakeit.RandomString([]string{"Entrees", "Grill", "Salad Bar", "Desserts"}),
	}

	return MenuItemStub{menuItem: menuItem}
}

func (ms MenuItemStub) WithName(name string) MenuItemStub {
	ms.menuItem.Name = name
	return ms
}

func (ms MenuItemStub) Get() entities.UCSBDiningCommonsMenuItem {
	return ms.menuItem
}
