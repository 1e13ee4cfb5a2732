// Command seed creates an admin user, a demo user and a starter catalog.
package main

import (
	"log"
	"os"

	"pulsa/internal/config"
	"pulsa/internal/models"
	"pulsa/internal/repositories"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")
	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if repositories.RedisClient != nil {
			repositories.RedisClient.Close()
		}
	}()

	users := repositories.NewUserRepository(repositories.DB)
	catalog := repositories.NewCatalogRepository(repositories.DB)

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password:", err)
	}

	admin := &models.User{
		Email:    adminEmail,
		Password: string(hashed),
		Name:     "Administrator",
		Phone:    adminPhone,
		Role:     "admin",
	}
	if err := users.Create(admin); err != nil {
		if err == repositories.ErrDuplicateUser {
			log.Println("admin user already exists")
		} else {
			log.Fatal("failed to create admin user:", err)
		}
	}

	categories, err := catalog.ListCategories()
	if err != nil {
		log.Fatal("failed to list categories:", err)
	}
	if len(categories) > 0 {
		log.Println("catalog already seeded")
		return
	}

	mobile := &models.Category{Name: "Mobile Credit"}
	data := &models.Category{Name: "Data Packages"}
	for _, cat := range []*models.Category{mobile, data} {
		if err := catalog.CreateCategory(cat); err != nil {
			log.Fatal("failed to create category:", err)
		}
	}

	items := []*models.CatalogItem{
		{CategoryID: mobile.ID, Name: "Credit 10,000", Price: decimal.NewFromInt(10000), Active: true},
		{CategoryID: mobile.ID, Name: "Credit 25,000", Price: decimal.NewFromInt(25000), Active: true},
		{CategoryID: mobile.ID, Name: "Credit 50,000", Price: decimal.NewFromInt(50000), Active: true},
		{CategoryID: data.ID, Name: "Data 5GB", Price: decimal.NewFromInt(35000), Active: true},
		{CategoryID: data.ID, Name: "Data 10GB", Price: decimal.NewFromInt(60000), Active: true},
	}
	for _, item := range items {
		if err := catalog.CreateItem(item); err != nil {
			log.Fatal("failed to create catalog item:", err)
		}
	}

	log.Printf("seeded %d categories and %d items", 2, len(items))
}
