// Command seed provisions demo accounts and a market price history corpus
// so the historical-average price fallback has data to work with.
package main

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"agrichain/internal/config"
	"agrichain/internal/db"
	"agrichain/internal/model"
	"agrichain/internal/repository"
)

const seedPassword = "password123"

// priceSeedDays is how far back the generated samples reach.
const priceSeedDays = 90

var seedUsers = []model.User{
	{
		Name:   "Admin",
		Email:  "admin@agrichain.local",
		Role:   model.RoleAdmin,
		Active: true,
	},
	{
		Name:          "Demo Farmer",
		Email:         "farmer@agrichain.local",
		Role:          model.RoleFarmer,
		City:          "Ludhiana",
		State:         "Punjab",
		FarmName:      "Green Acres",
		FarmSizeAcres: 12.5,
		Active:        true,
	},
	{
		Name:   "Demo Distributor",
		Email:  "distributor@agrichain.local",
		Role:   model.RoleDistributor,
		City:   "Delhi",
		State:  "Delhi",
		Active: true,
	},
}

var seedBasePrices = map[model.CropType]float64{
	model.CropWheat:      45.0,
	model.CropRice:       65.0,
	model.CropCorn:       35.0,
	model.CropPulses:     85.0,
	model.CropVegetables: 32.0,
	model.CropFruits:     55.0,
	model.CropSugarcane:  40.0,
	model.CropCotton:     60.0,
	model.CropSoybean:    50.0,
}

var seedRegions = []model.Region{
	model.RegionNorth,
	model.RegionSouth,
	model.RegionEast,
	model.RegionWest,
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.PriceHistory{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	priceRepo := repository.NewPriceHistoryRepository(gormDB)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	created := 0
	for i := range seedUsers {
		user := seedUsers[i]
		if existing, err := userRepo.FindByEmail(ctx, user.Email); err == nil && existing != nil {
			continue
		}
		user.PasswordHash = string(hash)
		if err := userRepo.Create(ctx, &user); err != nil {
			log.Fatalf("Failed to create seed user %s: %v", user.Email, err)
		}
		created++
	}
	log.Printf("Created %d seed users", created)

	samples := generatePriceHistory(time.Now())
	if err := priceRepo.CreateBatch(ctx, samples); err != nil {
		log.Fatalf("Failed to seed price history: %v", err)
	}
	log.Printf("Seeded %d price history samples", len(samples))

	log.Println("Seed completed")
}

// generatePriceHistory produces daily samples per crop type and region,
// drifting around the base price so averages stay plausible.
func generatePriceHistory(now time.Time) []model.PriceHistory {
	rng := rand.New(rand.NewSource(42))
	var samples []model.PriceHistory

	for cropType, base := range seedBasePrices {
		for _, region := range seedRegions {
			for day := 0; day < priceSeedDays; day += 3 {
				drift := 1 + (rng.Float64()-0.5)*0.2 // +/- 10%
				price := math.Round(base*drift*100) / 100
				samples = append(samples, model.PriceHistory{
					CropType:   cropType,
					Region:     region,
					PricePerKg: decimal.NewFromFloat(price),
					MarketName: "seed",
					RecordedAt: now.AddDate(0, 0, -day),
				})
			}
		}
	}
	return samples
}
