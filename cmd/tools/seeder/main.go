package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedMaterials(ctx, pool)
	seedZones(ctx, pool)
	seedCatalogs(ctx, pool)

	log.Println("Seeding completed successfully!")
}

func seedMaterials(ctx context.Context, pool *pgxpool.Pool) {
	materials := []struct {
		Name            string
		Category        string
		Unit            string
		BasePrice       float64
		LengthPerUnit   float64
		LaserCutSheet   bool
		RequiresSealant bool
	}{
		{"Hollow Galvanis 40x40", "frame", "batang", 95000, 6, false, false},
		{"Hollow Galvanis 40x60", "frame", "batang", 135000, 6, false, false},
		{"Besi Siku 40x40", "frame", "batang", 85000, 6, false, false},
		{"Atap Polycarbonate Twinlite", "roof", "m2", 165000, 0, false, false},
		{"Atap Spandek Pasir 0.35", "roof", "m2", 95000, 0, false, false},
		{"Atap Alderon RS", "roof", "m2", 185000, 0, false, false},
		{"Kaca Tempered 10mm", "roof", "m2", 650000, 0, false, true},
		{"Plat Laser Cut Motif", "infill", "lembar", 1200000, 0, true, false},
		{"Cat Duco Finishing", "finishing", "m2", 45000, 0, false, false},
		{"Sealant Kaca", "support", "tube", 45000, 0, false, false},
		{"Tiang Tengah Penyangga", "support", "batang", 110000, 6, false, false},
		{"Dynabolt 10mm", "support", "pcs", 3500, 0, false, false},
	}

	fmt.Println("Seeding Materials...")
	for _, m := range materials {
		_, err := pool.Exec(ctx, `
			INSERT INTO materials (id, name, category, unit, base_price, length_per_unit, is_laser_cut_sheet, requires_sealant)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name) DO UPDATE SET
				category = EXCLUDED.category,
				unit = EXCLUDED.unit,
				base_price = EXCLUDED.base_price,
				length_per_unit = EXCLUDED.length_per_unit,
				is_laser_cut_sheet = EXCLUDED.is_laser_cut_sheet,
				requires_sealant = EXCLUDED.requires_sealant,
				updated_at = now()
		`, m.Name, m.Category, m.Unit, m.BasePrice, m.LengthPerUnit, m.LaserCutSheet, m.RequiresSealant)
		if err != nil {
			log.Fatalf("Failed to seed material %q: %v", m.Name, err)
		}
	}
}

func seedZones(ctx context.Context, pool *pgxpool.Pool) {
	zones := []struct {
		Name          string
		MarkupPercent float64
		FlatFee       float64
	}{
		{"Jakarta", 0, 0},
		{"Bogor", 5, 50000},
		{"Depok", 5, 50000},
		{"Tangerang", 7.5, 75000},
		{"Bekasi", 7.5, 75000},
		{"Bandung", 12.5, 150000},
	}

	fmt.Println("Seeding Zones...")
	for _, z := range zones {
		_, err := pool.Exec(ctx, `
			INSERT INTO zones (id, name, markup_percent, flat_fee)
			VALUES (gen_random_uuid(), $1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET
				markup_percent = EXCLUDED.markup_percent,
				flat_fee = EXCLUDED.flat_fee
		`, z.Name, z.MarkupPercent, z.FlatFee)
		if err != nil {
			log.Fatalf("Failed to seed zone %q: %v", z.Name, err)
		}
	}
}

func seedCatalogs(ctx context.Context, pool *pgxpool.Pool) {
	catalogs := []struct {
		Name          string
		BasisPrice    float64
		BasisUnit     string
		MarginPercent float64
		LaborCost     float64
		TransportCost float64
		YieldMode     string
		StandardYield float64
		Roof          string
		Frame         string
		Components    []struct {
			Material string
			Quantity float64
			Section  string
		}
	}{
		{
			Name:          "Kanopi Polycarbonate Standar",
			BasisPrice:    450000,
			BasisUnit:     "m2",
			MarginPercent: 20,
			LaborCost:     300000,
			TransportCost: 0,
			YieldMode:     "normalized",
			StandardYield: 12,
			Roof:          "Atap Polycarbonate Twinlite",
			Frame:         "Hollow Galvanis 40x40",
			Components: []struct {
				Material string
				Quantity float64
				Section  string
			}{
				{"Hollow Galvanis 40x40", 8, "rangka"},
				{"Dynabolt 10mm", 16, "pemasangan"},
			},
		},
		{
			Name:          "Kanopi Spandek Ekonomis",
			BasisPrice:    325000,
			BasisUnit:     "m2",
			MarginPercent: 15,
			LaborCost:     250000,
			TransportCost: 100000,
			YieldMode:     "normalized",
			StandardYield: 12,
			Roof:          "Atap Spandek Pasir 0.35",
			Frame:         "Hollow Galvanis 40x40",
		},
		{
			Name:          "Kanopi Kaca Tempered Premium",
			BasisPrice:    1250000,
			BasisUnit:     "m2",
			MarginPercent: 25,
			LaborCost:     750000,
			TransportCost: 150000,
			YieldMode:     "raw",
			Roof:          "Kaca Tempered 10mm",
			Frame:         "Hollow Galvanis 40x60",
		},
		{
			Name:          "Pagar Laser Cut",
			BasisPrice:    1850000,
			BasisUnit:     "linear",
			MarginPercent: 22.5,
			LaborCost:     500000,
			TransportCost: 150000,
			YieldMode:     "raw",
			Frame:         "Besi Siku 40x40",
			Components: []struct {
				Material string
				Quantity float64
				Section  string
			}{
				{"Plat Laser Cut Motif", 2, "panel"},
				{"Cat Duco Finishing", 6, "finishing"},
			},
		},
	}

	fmt.Println("Seeding Catalogs...")
	for _, c := range catalogs {
		var catalogID string
		err := pool.QueryRow(ctx, `
			INSERT INTO catalogs (id, name, basis_price, basis_unit, margin_percent, labor_cost, transport_cost,
				yield_mode, standard_yield, roof_material_id, frame_material_id)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8,
				(SELECT id FROM materials WHERE name = $9),
				(SELECT id FROM materials WHERE name = $10))
			ON CONFLICT (name) DO UPDATE SET
				basis_price = EXCLUDED.basis_price,
				basis_unit = EXCLUDED.basis_unit,
				margin_percent = EXCLUDED.margin_percent,
				labor_cost = EXCLUDED.labor_cost,
				transport_cost = EXCLUDED.transport_cost,
				yield_mode = EXCLUDED.yield_mode,
				standard_yield = EXCLUDED.standard_yield,
				roof_material_id = EXCLUDED.roof_material_id,
				frame_material_id = EXCLUDED.frame_material_id,
				updated_at = now()
			RETURNING id
		`, c.Name, c.BasisPrice, c.BasisUnit, c.MarginPercent, c.LaborCost, c.TransportCost,
			c.YieldMode, c.StandardYield, nullIfEmpty(c.Roof), nullIfEmpty(c.Frame)).Scan(&catalogID)
		if err != nil {
			log.Fatalf("Failed to seed catalog %q: %v", c.Name, err)
		}

		if _, err := pool.Exec(ctx, `DELETE FROM catalog_components WHERE catalog_id = $1`, catalogID); err != nil {
			log.Fatalf("Failed to reset components for %q: %v", c.Name, err)
		}
		for _, comp := range c.Components {
			_, err := pool.Exec(ctx, `
				INSERT INTO catalog_components (id, catalog_id, material_id, quantity, section)
				VALUES (gen_random_uuid(), $1, (SELECT id FROM materials WHERE name = $2), $3, $4)
			`, catalogID, comp.Material, comp.Quantity, comp.Section)
			if err != nil {
				log.Fatalf("Failed to seed component %q for %q: %v", comp.Material, c.Name, err)
			}
		}
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
