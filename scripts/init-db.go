package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"bookkeeper/internal/config"
	"bookkeeper/internal/database"
	"bookkeeper/internal/models"
	"bookkeeper/internal/repository"
	"bookkeeper/internal/server"
)

// init-db wipes the ledger and recreates an empty schema. Pass "demo" to
// also create a sample vendor with one order that owes it money.
func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseDebug)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Dropping existing tables...")
	if err := db.Migrator().DropTable(models.All()...); err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	fmt.Println("Creating tables...")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if len(os.Args) < 2 || os.Args[1] != "demo" {
		fmt.Println("Database initialization completed successfully!")
		return
	}

	fmt.Println("Creating demo data...")
	svc := server.BuildServices(repository.NewStore(db), nil, cfg.CacheDuration(), cfg.BackupPrefix)

	vendor := &models.Vendor{Name: "Print Shop", ContactNumber: "0300-0000000"}
	if err := svc.Vendors.CreateVendor(vendor); err != nil {
		log.Fatal("Failed to create demo vendor:", err)
	}

	order := &models.Order{
		CustomerName:            "Walk-in Customer",
		OrderDescription:        "Demo order",
		OrderDate:               svc.Clock().Format("2006-01-02"),
		OrderTotal:              decimal.NewFromInt(5000),
		ReceivedDeliveryCharges: decimal.NewFromInt(200),
		PaidDeliveryCharges:     decimal.NewFromInt(150),
		Expenses: []models.ExpenseLine{
			{Description: "Printing", Amount: decimal.NewFromInt(1800), VendorID: models.FlexibleID(vendor.ID), VendorPaymentStatus: models.StatusPending},
			{Description: "Packaging", Amount: decimal.NewFromInt(300)},
		},
		Payments: []models.Payment{
			{Date: svc.Clock().Format("2006-01-02"), Amount: decimal.NewFromInt(2000)},
		},
	}
	if err := svc.Orders.CreateOrder(order); err != nil {
		log.Fatal("Failed to create demo order:", err)
	}

	fmt.Printf("Demo vendor %s and order %s created\n", vendor.ID, order.ID)
	fmt.Println("Database initialization completed successfully!")
}
