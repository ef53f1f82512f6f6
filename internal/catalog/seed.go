package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedVendor describes a sample vendor and its services. The vendor code
// identifies it across runs.
type SeedVendor struct {
	Code            string        `json:"code"`
	OwnerEmail      string        `json:"owner_email"`
	BusinessName    string        `json:"business_name"`
	PrimaryCategory string        `json:"primary_category"`
	Phone           string        `json:"phone"`
	Location        string        `json:"location"`
	City            string        `json:"city"`
	State           string        `json:"state"`
	Services        []SeedService `json:"services"`
}

// SeedService describes a sample service. Price is a decimal string.
type SeedService struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description"`
}

// SeedResult counts the catalog rows a seeding run inserted.
type SeedResult struct {
	Vendors  int
	Services int
}

type ownerLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// LoadSeedVendors reads the "vendors" list of a JSON seed file.
func LoadSeedVendors(path string) ([]SeedVendor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var file struct {
		Vendors []SeedVendor `json:"vendors"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return file.Vendors, nil
}

// Seed inserts vendors and services that do not exist yet. Existing rows are
// left untouched so aggregates survive reseeding.
func Seed(ctx context.Context, repo *Repository, owners ownerLookup, vendors []SeedVendor, logg *logger.Logger) (SeedResult, error) {
	var result SeedResult
	for _, sv := range vendors {
		code := strings.TrimSpace(sv.Code)
		if code == "" || strings.TrimSpace(sv.BusinessName) == "" {
			return result, fmt.Errorf("vendor seed requires code and business_name")
		}

		vendor, err := repo.FindVendorByCode(ctx, code)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, fmt.Errorf("lookup vendor %s: %w", code, err)
		}
		if vendor == nil {
			owner, err := owners.FindByEmail(ctx, sv.OwnerEmail)
			if err != nil {
				return result, fmt.Errorf("lookup owner %s for vendor %s: %w", sv.OwnerEmail, code, err)
			}
			vendor = &models.Vendor{
				OwnerUserID:     owner.ID,
				VendorCode:      &code,
				BusinessName:    sv.BusinessName,
				PrimaryCategory: sv.PrimaryCategory,
				Phone:           sv.Phone,
				Location:        sv.Location,
				City:            optional(sv.City),
				State:           optional(sv.State),
				IsActive:        true,
				IsVerified:      true,
			}
			if err := repo.CreateVendor(ctx, vendor); err != nil {
				return result, fmt.Errorf("create vendor %s: %w", code, err)
			}
			result.Vendors++
		}

		for _, ss := range sv.Services {
			created, err := seedService(ctx, repo, vendor, ss)
			if err != nil {
				return result, fmt.Errorf("vendor %s: %w", code, err)
			}
			if created {
				result.Services++
			}
		}
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"vendors_created":  result.Vendors,
			"services_created": result.Services,
		}), "catalog seeded")
	}
	return result, nil
}

func seedService(ctx context.Context, repo *Repository, vendor *models.Vendor, ss SeedService) (bool, error) {
	name := strings.TrimSpace(ss.Name)
	if name == "" {
		return false, fmt.Errorf("service seed requires name")
	}
	if _, err := repo.FindServiceByName(ctx, vendor.ID, name); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup service %s: %w", name, err)
	}
	price, err := decimal.NewFromString(ss.Price)
	if err != nil {
		return false, fmt.Errorf("service %s price: %w", name, err)
	}
	service := &models.Service{
		VendorID:    vendor.ID,
		Name:        name,
		Category:    ss.Category,
		Price:       price.Round(2),
		Description: optional(ss.Description),
		City:        vendor.City,
		State:       vendor.State,
		IsAvailable: true,
	}
	if ss.DurationMinutes > 0 {
		minutes := ss.DurationMinutes
		service.DurationMinutes = &minutes
	}
	if err := repo.CreateService(ctx, service); err != nil {
		return false, fmt.Errorf("create service %s: %w", name, err)
	}
	return true, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
