package main

import (
	"errors"
	"flag"
	"strconv"
	"strings"

	"github.com/hvngo/shop-backend/config"
	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/db"
	"github.com/hvngo/shop-backend/pkg/logger"
	"github.com/hvngo/shop-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Seeds the database with an admin account and a product catalog, either from
// an XLSX workbook (columns: category, name, description, price, stock,
// image_url) or from the built-in samples.
func main() {
	xlsxPath := flag.String("file", "", "path to an XLSX catalog to import")
	adminPassword := flag.String("admin-password", "admin123", "password for the seeded admin account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err, nil)
	}

	database, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", err, nil)
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err, nil)
	}

	if err := seedAdmin(database, *adminPassword); err != nil {
		logger.Fatal("Failed to seed admin user", err, nil)
	}

	if *xlsxPath != "" {
		if err := importCatalog(database, *xlsxPath); err != nil {
			logger.Fatal("Failed to import catalog", err, map[string]interface{}{
				"file": *xlsxPath,
			})
		}
	} else {
		if err := seedSamples(database); err != nil {
			logger.Fatal("Failed to seed sample catalog", err, nil)
		}
	}

	logger.Info("Seeding completed", nil)
}

func seedAdmin(database *gorm.DB, password string) error {
	var existing model.User
	err := database.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		logger.Info("Admin user already exists, skipping", nil)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := database.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user created", map[string]interface{}{
		"user_id": admin.ID,
	})
	return nil
}

func importCatalog(database *gorm.DB, path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return errors.New("catalog sheet has no data rows")
	}

	categories := map[string]uint{}
	imported := 0
	for i, row := range rows[1:] {
		if len(row) < 4 {
			logger.Warn("Skipping short row", map[string]interface{}{
				"row": i + 2,
			})
			continue
		}

		categoryName := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if name == "" {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			logger.Warn("Skipping row with invalid price", map[string]interface{}{
				"row":  i + 2,
				"name": name,
			})
			continue
		}

		stock := 0
		if len(row) > 4 {
			stock, _ = strconv.Atoi(strings.TrimSpace(row[4]))
		}
		imageURL := ""
		if len(row) > 5 {
			imageURL = strings.TrimSpace(row[5])
		}

		var categoryID *uint
		if categoryName != "" {
			id, err := ensureCategory(database, categories, categoryName)
			if err != nil {
				return err
			}
			categoryID = &id
		}

		product := &model.Product{
			Name:        name,
			Description: strings.TrimSpace(row[2]),
			Price:       price,
			Stock:       stock,
			ImageURL:    imageURL,
			CategoryID:  categoryID,
		}
		if err := database.Create(product).Error; err != nil {
			return err
		}
		imported++
	}

	logger.Info("Catalog imported", map[string]interface{}{
		"file":     path,
		"products": imported,
	})
	return nil
}

func ensureCategory(database *gorm.DB, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	var category model.Category
	err := database.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = model.Category{Name: name}
		err = database.Create(&category).Error
	}
	if err != nil {
		return 0, err
	}

	cache[name] = category.ID
	return category.ID, nil
}

func seedSamples(database *gorm.DB) error {
	var count int64
	if err := database.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Products already present, skipping samples", map[string]interface{}{
			"count": count,
		})
		return nil
	}

	electronics := model.Category{Name: "Electronics", Description: "Devices and accessories"}
	books := model.Category{Name: "Books", Description: "Printed and digital books"}
	for _, category := range []*model.Category{&electronics, &books} {
		if err := database.Create(category).Error; err != nil {
			return err
		}
	}

	samples := []model.Product{
		{Name: "Mechanical Keyboard", Description: "87-key, brown switches", Price: 89.90, Stock: 40, CategoryID: &electronics.ID},
		{Name: "Wireless Mouse", Description: "2.4 GHz, 1600 dpi", Price: 24.50, Stock: 120, CategoryID: &electronics.ID},
		{Name: "USB-C Hub", Description: "7-in-1, HDMI + PD", Price: 45.00, Stock: 60, CategoryID: &electronics.ID},
		{Name: "The Pragmatic Shopper", Description: "Paperback, 320 pages", Price: 19.99, Stock: 25, CategoryID: &books.ID},
	}
	for i := range samples {
		if err := database.Create(&samples[i]).Error; err != nil {
			return err
		}
	}

	logger.Info("Sample catalog seeded", map[string]interface{}{
		"products": len(samples),
	})
	return nil
}
