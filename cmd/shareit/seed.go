package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"gopkg.in/yaml.v3"
)

// fixtures reference users by email and items by name so a file can be
// written before any id is known.
type fixtures struct {
	Users    []models.User    `yaml:"users"`
	Items    []itemFixture    `yaml:"items"`
	Bookings []bookingFixture `yaml:"bookings"`
}

type itemFixture struct {
	Owner       string `yaml:"owner"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   *bool  `yaml:"available"`
}

type bookingFixture struct {
	Booker string        `yaml:"booker"`
	Item   string        `yaml:"item"`
	Start  time.Time     `yaml:"start"`
	End    time.Time     `yaml:"end"`
	Status models.Status `yaml:"status"`
}

type seedResult struct {
	Users    map[string]int64 `json:"users"`
	Items    map[string]int64 `json:"items"`
	Bookings []int64          `json:"bookings"`
}

func loadFixtures(path string) (*fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var f fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

func cmdSeed(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	path := fs.String("file", "configs/fixtures.yaml", "path to fixtures.yaml")
	if err := parse(fs, args); err != nil {
		return nil, err
	}

	f, err := loadFixtures(*path)
	if err != nil {
		return nil, err
	}
	return a.seed(ctx, f)
}

// seed writes fixtures straight into the store. Users that already exist
// by email are reused.
func (a *app) seed(ctx context.Context, f *fixtures) (*seedResult, error) {
	res := &seedResult{Users: map[string]int64{}, Items: map[string]int64{}, Bookings: []int64{}}

	for i := range f.Users {
		u := f.Users[i]
		if u.Email == "" || u.Name == "" {
			return nil, fmt.Errorf("%w: user #%d needs name and email", domain.ErrValidation, i+1)
		}
		existing, err := a.db.GetUserByEmail(ctx, u.Email)
		switch {
		case err == nil:
			res.Users[u.Email] = existing.ID
			continue
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		if err := a.db.CreateUser(ctx, &u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", u.Email, err)
		}
		res.Users[u.Email] = u.ID
	}

	for i, it := range f.Items {
		ownerID, err := a.userID(ctx, res, it.Owner)
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i+1, err)
		}
		item := &models.Item{
			OwnerID:     ownerID,
			Name:        it.Name,
			Description: it.Description,
			Available:   it.Available == nil || *it.Available,
		}
		if err := a.db.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("create item %s: %w", it.Name, err)
		}
		res.Items[it.Name] = item.ID
	}

	for i, bf := range f.Bookings {
		bookerID, err := a.userID(ctx, res, bf.Booker)
		if err != nil {
			return nil, fmt.Errorf("booking #%d: %w", i+1, err)
		}
		itemID, ok := res.Items[bf.Item]
		if !ok {
			return nil, fmt.Errorf("%w: booking #%d references unknown item %q", domain.ErrValidation, i+1, bf.Item)
		}
		if bf.Status != "" && !bf.Status.IsValid() {
			return nil, fmt.Errorf("%w: booking #%d has unknown status %q", domain.ErrValidation, i+1, bf.Status)
		}
		if !bf.Start.Before(bf.End) {
			return nil, fmt.Errorf("%w: booking #%d must start before it ends", domain.ErrValidation, i+1)
		}
		b := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: bf.Start, End: bf.End, Status: bf.Status}
		if err := a.db.CreateBooking(ctx, b); err != nil {
			return nil, fmt.Errorf("create booking #%d: %w", i+1, err)
		}
		res.Bookings = append(res.Bookings, b.ID)
	}

	a.logger.Info().
		Int("users", len(res.Users)).
		Int("items", len(res.Items)).
		Int("bookings", len(res.Bookings)).
		Msg("fixtures loaded")
	return res, nil
}

func (a *app) userID(ctx context.Context, res *seedResult, email string) (int64, error) {
	if id, ok := res.Users[email]; ok {
		return id, nil
	}
	u, err := a.db.GetUserByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	res.Users[email] = u.ID
	return u.ID, nil
}
