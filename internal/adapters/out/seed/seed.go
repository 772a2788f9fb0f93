// Package seed holds the demo restaurant, bar, tables and menu used by the
// in-memory catalog and by `matchctl seed`. Ids are derived from names so they are
// stable across restarts.
package seed

import (
	"fmt"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/ports"

	"github.com/google/uuid"
)

var namespace = uuid.MustParse("7c0b1a52-3f0e-4c55-9d4e-5b1f2d8a6e10")

type Restaurant struct {
	ID      kernel.UUID
	Name    string
	Address string
	Kind    string
}

type Data struct {
	Restaurants []Restaurant
	Tables      []ports.Table
	MenuItems   []ports.MenuItem
}

type dish struct {
	name      string
	category  string
	fullPrice int64
	halfPrice int64
}

var restaurantMenu = []dish{
	{"Paneer Tikka", "Starters", 250, 150},
	{"Chicken 65", "Starters", 280, 160},
	{"Veg Spring Rolls", "Starters", 180, 100},
	{"Fish Tikka", "Starters", 320, 180},
	{"Butter Chicken", "Main Course", 350, 200},
	{"Dal Makhani", "Main Course", 220, 130},
	{"Biryani (Chicken)", "Main Course", 280, 0},
	{"Biryani (Veg)", "Main Course", 230, 0},
	{"Palak Paneer", "Main Course", 240, 140},
	{"Butter Naan", "Breads", 50, 0},
	{"Garlic Naan", "Breads", 60, 0},
	{"Tandoori Roti", "Breads", 40, 0},
	{"Gulab Jamun", "Desserts", 120, 70},
	{"Rasmalai", "Desserts", 140, 80},
	{"Masala Chai", "Beverages", 40, 0},
	{"Lassi (Sweet)", "Beverages", 80, 0},
	{"Fresh Lime Soda", "Beverages", 60, 0},
}

var barMenu = []dish{
	{"Mojito", "Cocktails", 180, 0},
	{"Long Island Iced Tea", "Cocktails", 280, 0},
	{"Beer (Kingfisher)", "Beer", 150, 0},
	{"Whiskey (Single)", "Spirits", 200, 120},
	{"Vodka (Single)", "Spirits", 180, 110},
	{"Chicken Wings", "Snacks", 280, 160},
	{"Nachos", "Snacks", 220, 130},
}

// ID returns the stable id for a seeded object name.
func ID(name string) kernel.UUID {
	u := uuid.NewSHA1(namespace, []byte(name))
	id, _ := kernel.UUIDFromBytes(u[:])
	return id
}

// Demo returns "Spice Garden Restaurant" with tables T1..T10 and "Royal Bar & Lounge"
// with tables B1..B5, each with its menu.
func Demo() Data {
	restaurant := Restaurant{
		ID:      ID("restaurant/spice-garden"),
		Name:    "Spice Garden Restaurant",
		Address: "123 MG Road, Bangalore, Karnataka",
		Kind:    "restaurant",
	}
	bar := Restaurant{
		ID:      ID("restaurant/royal-bar"),
		Name:    "Royal Bar & Lounge",
		Address: "456 Church Street, Bangalore, Karnataka",
		Kind:    "bar",
	}

	var data Data
	data.Restaurants = []Restaurant{restaurant, bar}
	data.Tables = append(tables(restaurant, "T", 10), tables(bar, "B", 5)...)
	data.MenuItems = append(menu(restaurant, restaurantMenu), menu(bar, barMenu)...)
	return data
}

func tables(r Restaurant, prefix string, n int) []ports.Table {
	result := make([]ports.Table, 0, n)
	for i := 1; i <= n; i++ {
		number := fmt.Sprintf("%s%d", prefix, i)
		result = append(result, ports.Table{
			ID:           ID(r.ID.String() + "/table/" + number),
			RestaurantID: r.ID,
			Number:       number,
			Active:       true,
		})
	}
	return result
}

func menu(r Restaurant, dishes []dish) []ports.MenuItem {
	result := make([]ports.MenuItem, 0, len(dishes))
	for _, d := range dishes {
		item := ports.MenuItem{
			ID:           ID(r.ID.String() + "/menu/" + d.name),
			RestaurantID: r.ID,
			Name:         d.name,
			Category:     d.category,
			FullPrice:    kernel.Rupees(d.fullPrice),
			Available:    true,
		}
		if d.halfPrice > 0 {
			half := kernel.Rupees(d.halfPrice)
			item.HalfPrice = &half
		}
		result = append(result, item)
	}
	return result
}

// Table finds a seeded table by restaurant and number.
func (d Data) Table(restaurantID kernel.UUID, number string) (ports.Table, bool) {
	for _, t := range d.Tables {
		if t.RestaurantID.IsEqual(restaurantID) && t.Number == number {
			return t, true
		}
	}
	return ports.Table{}, false
}

// MenuItem finds a seeded menu item by restaurant and name.
func (d Data) MenuItem(restaurantID kernel.UUID, name string) (ports.MenuItem, bool) {
	for _, m := range d.MenuItems {
		if m.RestaurantID.IsEqual(restaurantID) && m.Name == name {
			return m, true
		}
	}
	return ports.MenuItem{}, false
}
