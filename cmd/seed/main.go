package main

import (
	"fmt"
	"log"
	"time"

	"github.com/foodlink/foodlink-backend/internal/config"
	"github.com/foodlink/foodlink-backend/internal/db"
	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.FoodItem{},
		&model.FoodItemPhoto{},
		&model.PickupRequest{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	donors := []model.User{
		{
			UID: "seed-donor-bakery", Username: "Corner Bakery", Email: "bakery@example.com",
			Role: model.RoleDonor, AvailabilityTimeFrom: "09:00", AvailabilityTimeTo: "17:00",
		},
		{
			UID: "seed-donor-grocer", Username: "Green Grocer", Email: "grocer@example.com",
			Role: model.RoleDonor, AvailabilityTimeFrom: "08:30", AvailabilityTimeTo: "12:30",
		},
	}
	receivers := []model.User{
		{UID: "seed-receiver-shelter", Username: "Harbor Shelter", Email: "shelter@example.com", Role: model.RoleReceiver},
		{UID: "seed-receiver-kitchen", Username: "Community Kitchen", Email: "kitchen@example.com", Role: model.RoleReceiver},
	}

	for i := range donors {
		if err := upsertUser(conn, &donors[i]); err != nil {
			log.Fatalf("seed donor: %v", err)
		}
	}
	for i := range receivers {
		if err := upsertUser(conn, &receivers[i]); err != nil {
			log.Fatalf("seed receiver: %v", err)
		}
	}

	in := func(days int) string { return time.Now().AddDate(0, 0, days).Format("2006-01-02") }
	lat1, lng1 := 52.3702, 4.8952
	items := []model.FoodItem{
		{DonorID: donors[0].ID, Name: "Day-old sourdough loaves", Quantity: 12, ExpiryDate: in(2), PickupLocation: "Prinsengracht 42", PickupLatitude: &lat1, PickupLongitude: &lng1},
		{DonorID: donors[0].ID, Name: "Cinnamon rolls", Quantity: 8, ExpiryDate: in(1), PickupLocation: "Prinsengracht 42"},
		{DonorID: donors[1].ID, Name: "Mixed vegetable crates", Quantity: 5, ExpiryDate: in(3), PickupLocation: "Marktplein 7"},
	}

	for i := range items {
		var existing model.FoodItem
		err := conn.Where("donor_id = ? AND name = ?", items[i].DonorID, items[i].Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := conn.Create(&items[i]).Error; err != nil {
				log.Fatalf("seed item: %v", err)
			}
			fmt.Printf("created item %q (qty %d, expires %s)\n", items[i].Name, items[i].Quantity, items[i].ExpiryDate)
			continue
		}
		if err != nil {
			log.Fatalf("seed item lookup: %v", err)
		}
		fmt.Printf("item %q already seeded\n", items[i].Name)
	}

	fmt.Println("seed complete")
}

func upsertUser(conn *gorm.DB, u *model.User) error {
	var existing model.User
	err := conn.Where("uid = ?", u.UID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return conn.Create(u).Error
	}
	if err != nil {
		return err
	}
	u.ID = existing.ID
	return nil
}
