// Package main provides a CLI tool for creating the schema and seeding demo data.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"clinicstats/internal/config"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
	"clinicstats/internal/infrastructure/storage/postgres"
	"clinicstats/migrations"
	"clinicstats/pkg/logger"
)

type demoBranch struct {
	name     string
	location string
	password string
}

var demoBranches = []demoBranch{
	{name: "فرع بغداد", location: "Baghdad", password: "baghdad123"},
	{name: "فرع البصرة", location: "Basra", password: "basra123"},
	{name: "فرع أربيل", location: "Erbil", password: "erbil123"},
}

var (
	amputationSites = []string{"فوق الركبة", "تحت الركبة", "فوق المرفق", "تحت المرفق", ""}
	diseaseTypes    = []string{"شلل نصفي", "انزلاق غضروفي", "كسور", "آلام المفاصل"}
	supportTypes    = []string{"كرسي متحرك", "عكازات", "مشد طبي"}
	genders         = []string{"ذكر", "أنثى"}
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := applyMigrations(ctx, pool, log); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") != "false" {
		txManager := postgres.NewTxManager(pool)
		if err := seedDemoData(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func applyMigrations(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	scripts, err := migrations.All()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, s := range scripts {
		if _, err := pool.Exec(ctx, s.SQL); err != nil {
			return fmt.Errorf("apply %s: %w", s.Name, err)
		}
		log.Infow("migration applied", "file", s.Name)
	}
	return nil
}

func seedDemoData(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	var existing int
	if err := txManager.GetQuerier(ctx).QueryRow(ctx, `SELECT count(*) FROM branches`).Scan(&existing); err != nil {
		return fmt.Errorf("count branches: %w", err)
	}
	if existing > 0 {
		log.Infow("branches already present, skipping demo data", "branches", existing)
		return nil
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()
	inserter := postgres.NewBatchInserter(txManager)

	return txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var (
			patients []clinic.Patient
			visits   []clinic.Visit
			payments []clinic.Payment
		)

		for _, b := range demoBranches {
			hash, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			branchID := id.New()
			_, err = txManager.GetQuerier(ctx).Exec(ctx, `
				INSERT INTO branches (id, name, location, password_hash, created_at)
				VALUES ($1, $2, $3, $4, $5)
			`, branchID, b.name, b.location, string(hash), now)
			if err != nil {
				return fmt.Errorf("insert branch %s: %w", b.location, err)
			}

			p, v, pay := demoPatients(rng, branchID, now)
			patients = append(patients, p...)
			visits = append(visits, v...)
			payments = append(payments, pay...)
		}

		counts := map[string]int64{}
		var err error
		if counts["patients"], err = postgres.CopyStructs(ctx, inserter, "patients", patients); err != nil {
			return err
		}
		if counts["visits"], err = postgres.CopyStructs(ctx, inserter, "visits", visits); err != nil {
			return err
		}
		if counts["payments"], err = postgres.CopyStructs(ctx, inserter, "payments", payments); err != nil {
			return err
		}

		log.Infow("demo data seeded",
			"branches", len(demoBranches),
			"patients", counts["patients"],
			"visits", counts["visits"],
			"payments", counts["payments"],
		)
		return nil
	})
}

// demoPatients spreads registrations over the last 18 months so every
// range token and the monthly trend have data.
func demoPatients(rng *rand.Rand, branchID id.ID, now time.Time) ([]clinic.Patient, []clinic.Visit, []clinic.Payment) {
	const perBranch = 40

	var (
		patients []clinic.Patient
		visits   []clinic.Visit
		payments []clinic.Payment
	)

	for i := 0; i < perBranch; i++ {
		registered := now.Add(-time.Duration(rng.Intn(540*24)) * time.Hour)
		cost := int64(50_000 + rng.Intn(20)*25_000)

		p := clinic.Patient{
			ID:               id.New(),
			BranchID:         branchID,
			Name:             fmt.Sprintf("مريض %d", i+1),
			Age:              3 + rng.Intn(80),
			Gender:           genders[rng.Intn(len(genders))],
			TotalCost:        types.NewMoneyFromInt(cost),
			CreatedAt:        registered,
			RegistrationDate: &registered,
		}
		switch rng.Intn(3) {
		case 0:
			p.IsAmputee = true
			p.AmputationSite = amputationSites[rng.Intn(len(amputationSites))]
		case 1:
			p.IsPhysiotherapy = true
			p.DiseaseType = diseaseTypes[rng.Intn(len(diseaseTypes))]
		default:
			p.IsMedicalSupport = true
			p.SupportType = supportTypes[rng.Intn(len(supportTypes))]
		}
		patients = append(patients, p)

		for v := rng.Intn(4); v > 0; v-- {
			visits = append(visits, clinic.Visit{
				ID:        id.New(),
				PatientID: p.ID,
				BranchID:  branchID,
				VisitDate: notAfter(registered.Add(time.Duration(rng.Intn(60*24))*time.Hour), now),
			})
		}

		paid := int64(0)
		for n := rng.Intn(3); n > 0 && paid < cost; n-- {
			amount := min(cost-paid, int64(25_000*(1+rng.Intn(3))))
			paid += amount
			payments = append(payments, clinic.Payment{
				ID:        id.New(),
				PatientID: p.ID,
				BranchID:  branchID,
				Amount:    types.NewMoneyFromInt(amount),
				Date:      notAfter(registered.Add(time.Duration(rng.Intn(30*24))*time.Hour), now),
			})
		}
	}

	return patients, visits, payments
}

func notAfter(t, limit time.Time) time.Time {
	if t.After(limit) {
		return limit
	}
	return t
}
