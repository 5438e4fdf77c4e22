package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"rentals-api/internal/auth"
	"rentals-api/internal/config"
	"rentals-api/internal/domain"
	"rentals-api/internal/repository"
	"rentals-api/internal/repository/sqlite"
	"rentals-api/internal/service"
)

const defaultSeedTimeout = 30 * time.Second

type seedConfig struct {
	file    string
	timeout time.Duration
}

// seedFile is the YAML layout read by the seed command. Places reference
// their owner by email and their city by name; reservations reference the
// place by name.
type seedFile struct {
	Users []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"users"`
	Cities []struct {
		Name    string `yaml:"name"`
		Country string `yaml:"country"`
	} `yaml:"cities"`
	Places []struct {
		OwnerEmail    string `yaml:"owner_email"`
		City          string `yaml:"city"`
		Name          string `yaml:"name"`
		Description   string `yaml:"description"`
		Address       string `yaml:"address"`
		PricePerNight int64  `yaml:"price_per_night"`
		MaxGuests     int    `yaml:"max_guests"`
	} `yaml:"places"`
	Reservations []struct {
		GuestEmail string `yaml:"guest_email"`
		Place      string `yaml:"place"`
		StartDate  string `yaml:"start_date"`
		EndDate    string `yaml:"end_date"`
	} `yaml:"reservations"`
}

type seedSummary struct {
	Users, Cities, Places, Reservations int
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, cities, places and reservations from a YAML file",
		Long: `Loads fixture data into the database. Records that already exist
(matched by email, city name or owner and place name) are skipped, so the
command can be run repeatedly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "seed.yaml", "seed file path")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, cfg *seedConfig) error {
	appCfg, err := config.Load()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrapf(err, "load config")
	}

	file, err := readSeedFile(cfg.file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	db, err := sqlite.Open(appCfg.Database.Path)
	if err != nil {
		return oops.Code("DB_OPEN_FAILED").With("path", appCfg.Database.Path).Wrap(err)
	}
	defer db.Close()

	repos := sqlite.NewRepositories(db)
	if err := repos.Init(ctx); err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	summary, err := applySeed(ctx, repos, auth.NewBcryptGuard(appCfg.Auth.BcryptCost), file)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

func readSeedFile(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("SEED_FILE").With("file", path).Wrap(err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, oops.Code("SEED_FILE").With("file", path).Wrapf(err, "parse seed file")
	}
	return &file, nil
}

// applySeed creates every record of file that does not exist yet.
func applySeed(ctx context.Context, repos *sqlite.Repositories, guard auth.PasswordGuard, file *seedFile) (seedSummary, error) {
	var summary seedSummary
	users := service.NewUserService(repos.Users, repos.Places, repos.Reservations, repos.Reviews, guard, nil)
	catalog := service.NewCatalogService(repos.Cities, repos.Places, repos.Reservations, repos.Reviews)

	for _, u := range file.Users {
		_, err := users.Register(ctx, service.RegisterInput{Name: u.Name, Email: u.Email, Password: u.Password})
		switch {
		case err == nil:
			summary.Users++
		case errors.Is(err, service.ErrEmailTaken):
		default:
			return summary, oops.Code("SEED_FAILED").With("email", u.Email).Wrapf(err, "create user")
		}
	}

	for _, c := range file.Cities {
		if _, err := repos.Cities.GetByName(ctx, c.Name); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return summary, oops.Code("SEED_FAILED").With("city", c.Name).Wrap(err)
		}
		if err := repos.Cities.Create(ctx, &domain.City{Name: c.Name, Country: c.Country}); err != nil {
			return summary, oops.Code("SEED_FAILED").With("city", c.Name).Wrapf(err, "create city")
		}
		summary.Cities++
	}

	placesByName := make(map[string]domain.Place)
	for _, p := range file.Places {
		owner, err := repos.Users.GetByEmail(ctx, p.OwnerEmail)
		if err != nil {
			return summary, oops.Code("SEED_FAILED").With("owner_email", p.OwnerEmail).Wrapf(err, "place owner")
		}
		city, err := repos.Cities.GetByName(ctx, p.City)
		if err != nil {
			return summary, oops.Code("SEED_FAILED").With("city", p.City).Wrapf(err, "place city")
		}

		existing, err := findPlace(ctx, repos.Places, owner.ID, p.Name)
		if err != nil {
			return summary, err
		}
		if existing != nil {
			placesByName[p.Name] = *existing
			continue
		}

		place, err := catalog.CreatePlace(ctx, owner.ID, service.PlaceInput{
			CityID:        city.ID,
			Name:          p.Name,
			Description:   p.Description,
			Address:       p.Address,
			PricePerNight: p.PricePerNight,
			MaxGuests:     p.MaxGuests,
		})
		if err != nil {
			return summary, oops.Code("SEED_FAILED").With("place", p.Name).Wrapf(err, "create place")
		}
		placesByName[p.Name] = *place
		summary.Places++
	}

	for _, r := range file.Reservations {
		place, ok := placesByName[r.Place]
		if !ok {
			return summary, oops.Code("SEED_FAILED").With("place", r.Place).Errorf("reservation references unknown place")
		}
		guest, err := repos.Users.GetByEmail(ctx, r.GuestEmail)
		if err != nil {
			return summary, oops.Code("SEED_FAILED").With("guest_email", r.GuestEmail).Wrapf(err, "reservation guest")
		}
		start, err := time.Parse("2006-01-02", r.StartDate)
		if err != nil {
			return summary, oops.Code("SEED_FAILED").With("start_date", r.StartDate).Wrap(err)
		}
		end, err := time.Parse("2006-01-02", r.EndDate)
		if err != nil {
			return summary, oops.Code("SEED_FAILED").With("end_date", r.EndDate).Wrap(err)
		}
		if !end.After(start) {
			return summary, oops.Code("SEED_FAILED").With("place", r.Place).Errorf("reservation ends before it starts")
		}

		booked, err := hasReservation(ctx, repos.Reservations, guest.ID, place.ID, start)
		if err != nil {
			return summary, err
		}
		if booked {
			continue
		}
		if _, err := catalog.CreateReservation(ctx, guest.ID, place.ID, service.ReservationInput{StartDate: start, EndDate: end}); err != nil {
			return summary, oops.Code("SEED_FAILED").With("place", r.Place).Wrapf(err, "create reservation")
		}
		summary.Reservations++
	}

	return summary, nil
}

func findPlace(ctx context.Context, places repository.PlaceRepository, ownerID, name string) (*domain.Place, error) {
	owned, err := places.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, oops.Code("SEED_FAILED").With("owner_id", ownerID).Wrap(err)
	}
	for i := range owned {
		if owned[i].Name == name {
			return &owned[i], nil
		}
	}
	return nil, nil
}

func hasReservation(ctx context.Context, reservations repository.ReservationRepository, guestID, placeID string, start time.Time) (bool, error) {
	existing, err := reservations.ListByGuest(ctx, guestID)
	if err != nil {
		return false, oops.Code("SEED_FAILED").With("guest_id", guestID).Wrap(err)
	}
	for _, r := range existing {
		if r.PlaceID == placeID && r.StartDate.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func printSummary(w io.Writer, s seedSummary) {
	fmt.Fprintf(w, "seeded %d users, %d cities, %d places, %d reservations\n", s.Users, s.Cities, s.Places, s.Reservations)
}
