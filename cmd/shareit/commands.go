package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/export"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
)

type app struct {
	cfg      *config.Config
	db       *database.DB
	repo     domain.Repository
	bookings *service.BookingService
	items    *service.ItemService
	logger   *zerolog.Logger
	out      io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error)
}

var commands = map[string]command{
	"seed":           {"-file fixtures.yaml", cmdSeed},
	"book":           {"-user ID -item ID -start TIME -end TIME", cmdBook},
	"decide":         {"-user ID -booking ID -approved=true|false", cmdDecide},
	"booking":        {"-user ID -id ID", cmdBooking},
	"bookings":       {"-user ID [-state ALL]", cmdBookings},
	"owner-bookings": {"-user ID [-state ALL]", cmdOwnerBookings},
	"item":           {"-user ID -id ID", cmdItem},
	"items":          {"-user ID", cmdItems},
	"search":         {"-text TEXT", cmdSearch},
	"comment":        {"-user ID -item ID -text TEXT", cmdComment},
	"export":         {"-user ID", cmdExport},
	"backup":         {"", cmdBackup},
}

func (a *app) execute(ctx context.Context, args []string) error {
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		return errUsage("unknown command %q, available: %s", name, strings.Join(commandNames(), ", "))
	}

	fs := newFlagSet(name, a.out)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: shareit %s %s\n", name, cmd.usage)
		fs.PrintDefaults()
	}

	result, err := cmd.run(ctx, a, fs, args[1:])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newFlagSet(name string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError{msg: err.Error()}
	}
	return nil
}

func requireID(name string, v int64) error {
	if v <= 0 {
		return errUsage("-%s is required", name)
	}
	return nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// parseTime accepts RFC 3339 or a local date-time without zone, read as UTC.
func parseTime(flagName, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errUsage("-%s is required", flagName)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errUsage("-%s: cannot parse %q", flagName, raw)
}

func cmdBook(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID := fs.Int64("user", 0, "booker id")
	itemID := fs.Int64("item", 0, "item id")
	startRaw := fs.String("start", "", "booking start")
	endRaw := fs.String("end", "", "booking end")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := requireID("user", *userID); err != nil {
		return nil, err
	}
	if err := requireID("item", *itemID); err != nil {
		return nil, err
	}
	start, err := parseTime("start", *startRaw)
	if err != nil {
		return nil, err
	}
	end, err := parseTime("end", *endRaw)
	if err != nil {
		return nil, err
	}
	return a.bookings.Create(ctx, *userID, *itemID, start, end)
}

func cmdDecide(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID := fs.Int64("user", 0, "owner id")
	bookingID := fs.Int64("booking", 0, "booking id")
	approved := fs.Bool("approved", false, "approve instead of reject")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := requireID("user", *userID); err != nil {
		return nil, err
	}
	if err := requireID("booking", *bookingID); err != nil {
		return nil, err
	}
	return a.bookings.Decide(ctx, *userID, *bookingID, *approved)
}

func cmdBooking(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID := fs.Int64("user", 0, "requester id")
	bookingID := fs.Int64("id", 0, "booking id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := requireID("user", *userID); err != nil {
		return nil, err
	}
	if err := requireID("id", *bookingID); err != nil {
		return nil, err
	}
	return a.bookings.GetByID(ctx, *userID, *bookingID)
}

func listFlags(fs *flag.FlagSet, args []string) (int64, models.BookingState, error) {
	userID := fs.Int64("user", 0, "user id")
	rawState := fs.String("state", string(models.StateAll), "one of "+statesUsage())
	if err := parse(fs, args); err != nil {
		return 0, "", err
	}
	if err := requireID("user", *userID); err != nil {
		return 0, "", err
	}
	state, err := service.ParseState(*rawState)
	if err != nil {
		return 0, "", err
	}
	return *userID, state, nil
}

func statesUsage() string {
	states := models.BookingStates()
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func cmdBookings(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID, state, err := listFlags(fs, args)
	if err != nil {
		return nil, err
	}
	return a.bookings.ListByBooker(ctx, userID, state)
}

func cmdOwnerBookings(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID, state, err := listFlags(fs, args)
	if err != nil {
		return nil, err
	}
	return a.bookings.ListByOwner(ctx, userID, state)
}

func cmdItem(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID := fs.Int64("user", 0, "requester id")
	itemID := fs.Int64("id", 0, "item id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := requireID("user", *userID); err != nil {
		return nil, err
	}
	if err := requireID("id", *itemID); err != nil {
		return nil, err
	}
	return a.items.WithBookings(ctx, *itemID, *userID)
}

func cmdItems(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID := fs.Int64("user", 0, "owner id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := requireID("user", *userID); err != nil {
		return nil, err
	}
	return a.items.ListByOwnerWithBookings(ctx, *userID)
}

func cmdSearch(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	text := fs.String("text", "", "text to look for in name or description")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.items.Search(ctx, *text)
}

func cmdComment(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID := fs.Int64("user", 0, "author id")
	itemID := fs.Int64("item", 0, "item id")
	text := fs.String("text", "", "comment text")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := requireID("user", *userID); err != nil {
		return nil, err
	}
	if err := requireID("item", *itemID); err != nil {
		return nil, err
	}
	return a.items.CreateComment(ctx, *userID, *itemID, *text)
}

type exportResult struct {
	Path     string `json:"path"`
	Bookings int    `json:"bookings"`
	Items    int    `json:"items"`
}

func cmdExport(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	userID := fs.Int64("user", 0, "owner id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := requireID("user", *userID); err != nil {
		return nil, err
	}

	bookings, err := a.bookings.ListByOwner(ctx, *userID, models.StateAll)
	if err != nil {
		return nil, err
	}
	views, err := a.items.ListByOwnerWithBookings(ctx, *userID)
	if err != nil {
		return nil, err
	}
	owner, err := a.repo.GetUser(ctx, *userID)
	if err != nil {
		return nil, err
	}

	path, err := export.OwnerReport(a.cfg.Exports.Path, owner, bookings, views, time.Now())
	if err != nil {
		return nil, err
	}
	a.logger.Info().Str("file_path", path).Msg("excel file created")
	return exportResult{Path: path, Bookings: len(bookings), Items: len(views)}, nil
}

type backupResult struct {
	Path    string `json:"path"`
	Removed int    `json:"removed"`
}

func cmdBackup(ctx context.Context, a *app, fs *flag.FlagSet, args []string) (interface{}, error) {
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if a.db.Path() == ":memory:" {
		return nil, errUsage("in-memory database cannot be backed up")
	}

	path, err := a.db.Backup(ctx, a.cfg.Backup.StoragePath)
	if err != nil {
		return nil, err
	}
	removed, err := a.db.CleanupBackups(a.cfg.Backup.StoragePath, a.cfg.Backup.RetentionDays)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to clean up old backups")
	}
	return backupResult{Path: path, Removed: removed}, nil
}
