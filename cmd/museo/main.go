package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"museovini/internal/admin"
	"museovini/internal/apiclient"
	"museovini/internal/booking"
	"museovini/internal/config"
	"museovini/internal/domain"
	"museovini/internal/events"
	"museovini/internal/export"
	"museovini/internal/guard"
	"museovini/internal/logging"
	"museovini/internal/metrics"
	"museovini/internal/models"
	"museovini/internal/session"
	"museovini/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// consoleNotifier prints transient feedback straight to the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Notify(kind, message string) {
	fmt.Printf("[%s] %s\n", kind, message)
}

type app struct {
	cfg       *config.Config
	logger    *zerolog.Logger
	session   *session.Manager
	workspace *booking.Workspace
	admin     *admin.Client
	exporter  *export.Exporter
	closers   []io.Closer
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func run() error {
	if len(os.Args) < 2 {
		usage()
		return nil
	}

	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(cfg.Monitoring.PrometheusPort, logger)
	}

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	return dispatch(ctx, a, os.Args[1], os.Args[2:])
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "museo-main").Logger()
	return cfg, &logger, closer, nil
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*app, error) {
	creds, closers, err := initCredentialStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	api, err := apiclient.New(cfg.API, creds, logger)
	if err != nil {
		return nil, err
	}

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, logger)

	notifier := consoleNotifier{}
	a := &app{
		cfg:       cfg,
		logger:    logger,
		session:   session.NewManager(api, creds, eventBus, logger),
		workspace: booking.NewWorkspace(api, cfg.Booking.TimeSlots, eventBus, notifier, logger),
		admin:     admin.NewClient(api, logger),
		exporter:  export.NewExporter(cfg.Exports.Path, logger),
		closers:   closers,
	}
	return a, nil
}

// initCredentialStore builds the configured backend wrapped in an in-memory
// failover, so a broken disk or Redis never blocks the visitor.
func initCredentialStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.CredentialStore, []io.Closer, error) {
	var primary domain.CredentialStore
	var closers []io.Closer

	switch cfg.Storage.Driver {
	case "redis":
		client := store.NewRedisClient(cfg.Storage.Redis)
		if err := store.Ping(ctx, client); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable")
		}
		closers = append(closers, client)
		primary = store.NewRedisCredentialStore(client)
	case "memory":
		return store.NewMemoryCredentialStore(), nil, nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, nil, err
		}
		sqliteStore, err := store.NewSQLiteCredentialStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, sqliteStore)
		primary = sqliteStore
	}

	fallback := store.NewMemoryCredentialStore()
	return store.NewFailoverCredentialStore(primary, fallback, logger), closers, nil
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func subscribeBookingEvents(bus *events.EventBus, logger *zerolog.Logger) {
	logPayload := func(ev *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().Str("event", ev.Type).Int64("booking_id", payload.BookingID).Msg("booking event")
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, logPayload)
	bus.Subscribe(events.EventBookingCancelled, logPayload)
	bus.Subscribe(events.EventUpdateRequested, logPayload)
}

func dispatch(ctx context.Context, a *app, command string, args []string) error {
	switch command {
	case "login":
		return cmdLogin(ctx, a, args)
	case "register":
		return cmdRegister(ctx, a, args)
	case "logout":
		return cmdLogout(ctx, a)
	case "whoami":
		return cmdWhoami(ctx, a)
	case "account":
		return cmdAccount(ctx, a, args)
	case "passwd":
		return cmdPasswd(ctx, a, args)
	case "bookings":
		return cmdBookings(ctx, a)
	case "book":
		return cmdBook(ctx, a, args)
	case "cancel":
		return cmdCancel(ctx, a, args)
	case "request-change":
		return cmdRequestChange(ctx, a, args)
	case "rebook":
		return cmdRebook(ctx, a, args)
	case "availability":
		return cmdAvailability(ctx, a, args)
	case "export":
		return cmdExport(ctx, a)
	case "ics":
		return cmdICS(ctx, a, args)
	case "admin":
		return cmdAdmin(ctx, a, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Println(`museo - museum booking client

Commands:
  login          -email -password
  register       -name -surname -email -phone -password
  logout
  whoami
  account        -name -surname -email -phone
  passwd         -current -new
  bookings
  book           -date -slot -people [-experience] [-notes] [-guest name:email ...]
  cancel         -id
  request-change -id [-date] [-slot] [-people] [-notes] [-message]
  rebook         -id [-date -slot]
  availability   -date -slot [-experience]
  export
  ics            -id
  admin          stats|trends|users|overview|bookings|deleted-users|deleted-bookings|
                 user-update -id [-name] [-surname] [-email] [-phone] [-admin] |
                 user-delete -id | user-passwd -id -new |
                 booking-update -id [-date -slot] [-people] [-notes] | booking-delete -id`)
}

// requireSession resolves the stored session and fails if it settles to
// anonymous.
func requireSession(ctx context.Context, a *app) error {
	if err := a.session.Resolve(ctx); err != nil {
		return fmt.Errorf("session expired, please log in again: %w", err)
	}
	decision := guard.RequireAuth(a.session, "")
	if decision.Outcome != guard.OutcomeAllow {
		return fmt.Errorf("not logged in, run: museo login")
	}
	return nil
}

func requireAdmin(ctx context.Context, a *app) error {
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	if guard.RequireAdmin(a.session, "").Outcome != guard.OutcomeAllow {
		return fmt.Errorf("admin privileges required")
	}
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("login: -email is required")
	}
	if *password == "" {
		var err error
		*password, err = promptSecret("Password: ")
		if err != nil {
			return err
		}
	}

	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s %s <%s>\n", user.Name, user.Surname, user.Email)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	payload := models.RegisterPayload{}
	fs.StringVar(&payload.Name, "name", "", "first name")
	fs.StringVar(&payload.Surname, "surname", "", "last name")
	fs.StringVar(&payload.Email, "email", "", "email")
	fs.StringVar(&payload.Phone, "phone", "", "phone number")
	fs.StringVar(&payload.Password, "password", "", "password")
	_ = fs.Parse(args)

	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		return fmt.Errorf("register: -name, -email and -password are required")
	}

	user, err := a.session.Register(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s! Your account is ready and you are logged in.\n", user.Name)
	return nil
}

func cmdLogout(ctx context.Context, a *app) error {
	a.session.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

func cmdWhoami(ctx context.Context, a *app) error {
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	user := a.session.Current()
	role := "visitor"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Printf("%s %s <%s> phone=%s role=%s\n", user.Name, user.Surname, user.Email, user.Phone, role)
	return nil
}

func cmdAccount(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("account", flag.ExitOnError)
	name := fs.String("name", "", "new first name")
	surname := fs.String("surname", "", "new last name")
	email := fs.String("email", "", "new email")
	phone := fs.String("phone", "", "new phone number")
	_ = fs.Parse(args)

	if err := requireSession(ctx, a); err != nil {
		return err
	}

	update := models.ProfileUpdate{}
	changed := false
	for _, field := range []struct {
		value  *string
		target **string
	}{
		{name, &update.Name},
		{surname, &update.Surname},
		{email, &update.Email},
		{phone, &update.Phone},
	} {
		if *field.value != "" {
			*field.target = field.value
			changed = true
		}
	}
	if !changed {
		return fmt.Errorf("account: nothing to update")
	}

	user, err := a.session.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated: %s %s <%s> phone=%s\n", user.Name, user.Surname, user.Email, user.Phone)
	return nil
}

func cmdPasswd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	current := fs.String("current", "", "current password")
	next := fs.String("new", "", "new password")
	_ = fs.Parse(args)

	if err := requireSession(ctx, a); err != nil {
		return err
	}
	var err error
	if *current == "" {
		if *current, err = promptSecret("Current password: "); err != nil {
			return err
		}
	}
	if *next == "" {
		if *next, err = promptSecret("New password: "); err != nil {
			return err
		}
	}

	if err := a.session.ChangePassword(ctx, *current, *next); err != nil {
		return err
	}
	fmt.Println("Password updated.")
	return nil
}

func cmdBookings(ctx context.Context, a *app) error {
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	if err := a.workspace.Load(ctx); err != nil {
		return err
	}
	if warning := a.workspace.Warning(); warning != "" {
		fmt.Printf("warning: %s\n", warning)
	}

	upcoming, past := a.workspace.Partition()

	fmt.Printf("Upcoming reservations (%d):\n", len(upcoming))
	for _, b := range upcoming {
		printBooking(a, b)
	}
	if len(past) > 0 {
		fmt.Printf("\nPast visits (%d):\n", len(past))
		for _, b := range past {
			fmt.Printf("  #%d  %s  %d guests  %s\n", b.ID, b.DateTime.Format("Mon 02 Jan 2006 15:04"), b.People, b.ExperienceType)
		}
	}
	return nil
}

func printBooking(a *app, b models.Booking) {
	fmt.Printf("  #%d  %s  %d guests  %s\n", b.ID, b.DateTime.Format("Mon 02 Jan 2006 15:04"), b.People, b.ExperienceType)
	if b.InfoMessage != "" {
		fmt.Printf("      note: %s\n", b.InfoMessage)
	}
	for _, c := range b.GuestContacts {
		fmt.Printf("      guest: %s <%s>\n", c.Name, c.Email)
	}
	if req, ok := a.workspace.LatestRequestFor(b.ID); ok {
		fmt.Printf("      change request #%d: %s", req.ID, req.Status)
		if req.AdminNote != nil && *req.AdminNote != "" {
			fmt.Printf(" (admin: %s)", *req.AdminNote)
		}
		fmt.Println()
	}
}

type guestFlags []models.GuestContact

func (g *guestFlags) String() string { return fmt.Sprintf("%v", []models.GuestContact(*g)) }

func (g *guestFlags) Set(value string) error {
	name, email, ok := strings.Cut(value, ":")
	if !ok {
		return fmt.Errorf("guest %q: expected name:email", value)
	}
	*g = append(*g, models.GuestContact{Name: name, Email: email})
	return nil
}

func cmdBook(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	date := fs.String("date", "", "visit date (YYYY-MM-DD)")
	slot := fs.String("slot", "", "time slot (HH:MM)")
	people := fs.Int("people", 1, "number of guests")
	experience := fs.String("experience", models.ExperienceGuidedTour, "guided_tour or tour_tasting")
	notes := fs.String("notes", "", "special requests")
	var guests guestFlags
	fs.Var(&guests, "guest", "guest contact as name:email (repeatable)")
	_ = fs.Parse(args)

	if err := requireSession(ctx, a); err != nil {
		return err
	}

	a.workspace.SetForm(booking.Form{
		Date:           *date,
		TimeSlot:       *slot,
		People:         *people,
		InfoMessage:    *notes,
		ExperienceType: *experience,
		GuestContacts:  guests,
	})

	created, err := a.workspace.Create(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Reservation #%d confirmed for %s (%d guests).\n", created.ID, created.DateTime.Format("Mon 02 Jan 2006 15:04"), created.People)
	return nil
}

func cmdCancel(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.Int64("id", 0, "booking id")
	_ = fs.Parse(args)

	if *id == 0 {
		return fmt.Errorf("cancel: -id is required")
	}
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	if err := a.workspace.Cancel(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Reservation #%d cancelled.\n", *id)
	return nil
}

func cmdRequestChange(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("request-change", flag.ExitOnError)
	id := fs.Int64("id", 0, "booking id")
	date := fs.String("date", "", "requested date (YYYY-MM-DD)")
	slot := fs.String("slot", "", "requested slot (HH:MM)")
	people := fs.Int("people", 0, "requested number of guests")
	notes := fs.String("notes", "", "requested visit notes")
	message := fs.String("message", "", "message for the admin team")
	_ = fs.Parse(args)

	if *id == 0 {
		return fmt.Errorf("request-change: -id is required")
	}
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	// The change is validated against the booking's current values, so the
	// list has to be loaded first.
	if err := a.workspace.Load(ctx); err != nil {
		return err
	}

	req := models.UpdateRequestCreate{}
	if *date != "" || *slot != "" {
		if *date == "" || *slot == "" {
			return fmt.Errorf("request-change: -date and -slot go together")
		}
		when, err := time.ParseInLocation("2006-01-02T15:04", *date+"T"+*slot, time.Local)
		if err != nil {
			return fmt.Errorf("request-change: invalid date or slot: %w", err)
		}
		req.RequestedDateTime = &when
	}
	if *people > 0 {
		req.RequestedPeople = people
	}
	if *notes != "" {
		req.RequestedInfoMessage = notes
	}
	if *message != "" {
		req.Note = message
	}

	created, err := a.workspace.RequestChange(ctx, *id, req)
	if err != nil {
		return err
	}
	fmt.Printf("Change request #%d sent for booking #%d (status: %s).\n", created.ID, created.BookingID, created.Status)
	return nil
}

func cmdRebook(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("rebook", flag.ExitOnError)
	id := fs.Int64("id", 0, "booking id to copy")
	date := fs.String("date", "", "new visit date (YYYY-MM-DD)")
	slot := fs.String("slot", "", "new time slot (HH:MM)")
	_ = fs.Parse(args)

	if *id == 0 {
		return fmt.Errorf("rebook: -id is required")
	}
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	if err := a.workspace.Load(ctx); err != nil {
		return err
	}

	var source *models.Booking
	for _, b := range a.workspace.Bookings() {
		if b.ID == *id {
			source = &b
			break
		}
	}
	if source == nil {
		return fmt.Errorf("rebook: booking #%d not found", *id)
	}

	// Seed the draft from the previous visit; the date stays blank until a
	// new future slot is supplied.
	a.workspace.Rebook(*source)

	if *date == "" || *slot == "" {
		form := a.workspace.Form()
		fmt.Printf("Copied %d guests, %s from booking #%d. Re-run with -date and -slot to confirm.\n",
			form.People, form.ExperienceType, source.ID)
		return nil
	}

	form := a.workspace.Form()
	form.Date = *date
	form.TimeSlot = *slot
	a.workspace.SetForm(form)

	created, err := a.workspace.Create(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Reservation #%d confirmed for %s (%d guests).\n", created.ID, created.DateTime.Format("Mon 02 Jan 2006 15:04"), created.People)
	return nil
}

func cmdAvailability(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("availability", flag.ExitOnError)
	date := fs.String("date", "", "visit date (YYYY-MM-DD)")
	slot := fs.String("slot", "", "time slot (HH:MM)")
	experience := fs.String("experience", models.ExperienceGuidedTour, "guided_tour or tour_tasting")
	_ = fs.Parse(args)

	if *date == "" || *slot == "" {
		return fmt.Errorf("availability: -date and -slot are required")
	}
	if err := requireSession(ctx, a); err != nil {
		return err
	}

	when, err := time.ParseInLocation("2006-01-02T15:04", *date+"T"+*slot, time.Local)
	if err != nil {
		return fmt.Errorf("availability: invalid date or slot: %w", err)
	}

	snapshot, err := a.workspace.CheckAvailability(ctx, when, *experience)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}
	if snapshot.IsFull {
		fmt.Println("This slot is fully booked. Consider choosing another time.")
		return nil
	}
	fmt.Printf("%d of %d spots available for this experience.\n", snapshot.Remaining, snapshot.Capacity)
	return nil
}

func cmdExport(ctx context.Context, a *app) error {
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	if err := a.workspace.Load(ctx); err != nil {
		return err
	}

	path, err := a.exporter.BookingsToExcel(a.workspace.Bookings(), time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Bookings exported to %s\n", path)
	return nil
}

func cmdICS(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("ics", flag.ExitOnError)
	id := fs.Int64("id", 0, "booking id")
	_ = fs.Parse(args)

	if *id == 0 {
		return fmt.Errorf("ics: -id is required")
	}
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	if err := a.workspace.Load(ctx); err != nil {
		return err
	}

	for _, b := range a.workspace.Bookings() {
		if b.ID == *id {
			path, err := a.exporter.BookingToICS(b)
			if err != nil {
				return err
			}
			fmt.Printf("Calendar event written to %s\n", path)
			return nil
		}
	}
	return fmt.Errorf("ics: booking #%d not found", *id)
}

func cmdAdmin(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("admin: missing subcommand")
	}
	if err := requireAdmin(ctx, a); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "stats":
		stats, err := a.admin.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Users: %d (%d admins, %d visitors)\n", stats.TotalUsers, stats.TotalAdmins, stats.TotalRegularUsers)
		fmt.Printf("Active bookings: %d\n", stats.ActiveBookings)
		fmt.Printf("Deleted: %d users, %d bookings\n", stats.DeletedUsers, stats.DeletedBookings)
		return nil
	case "trends":
		trends, err := a.admin.Trends(ctx)
		if err != nil {
			return err
		}
		fmt.Println("Weekly signups:")
		for _, p := range trends.WeeklyUserSignups {
			fmt.Printf("  %s  %d\n", p.Date, p.Count)
		}
		fmt.Println("Weekly bookings:")
		for _, p := range trends.WeeklyBookings {
			fmt.Printf("  %s  %d\n", p.Date, p.Count)
		}
		return nil
	case "users":
		users, err := a.admin.Users(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			marker := ""
			if u.IsAdmin {
				marker = " [admin]"
			}
			fmt.Printf("  #%d  %s %s <%s>%s\n", u.ID, u.Name, u.Surname, u.Email, marker)
		}
		return nil
	case "overview":
		overview, err := a.admin.Overview(ctx)
		if err != nil {
			return err
		}
		for _, u := range overview {
			fmt.Printf("  #%d  %s %s <%s>  %d bookings\n", u.ID, u.Name, u.Surname, u.Email, len(u.Bookings))
		}
		return nil
	case "bookings":
		bookings, err := a.admin.Bookings(ctx)
		if err != nil {
			return err
		}
		for _, b := range bookings {
			fmt.Printf("  #%d  %s  %d guests  %s  (user %d)\n", b.ID, b.DateTime.Format("2006-01-02 15:04"), b.People, b.ExperienceType, b.UserID)
		}
		return nil
	case "deleted-users":
		deleted, err := a.admin.DeletedUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range deleted {
			fmt.Printf("  user %d  %s %s <%s>  deleted %s\n", u.UserID, u.Name, u.Surname, u.Email, u.DeletedAt)
		}
		return nil
	case "deleted-bookings":
		deleted, err := a.admin.DeletedBookings(ctx)
		if err != nil {
			return err
		}
		for _, b := range deleted {
			fmt.Printf("  booking %d  %s  %d guests  (%s %s)  deleted %s\n", b.BookingID, b.DateTime, b.People, b.UserName, b.UserSurname, b.DeletedAt)
		}
		return nil
	case "user-update":
		fs := flag.NewFlagSet("admin user-update", flag.ExitOnError)
		id := fs.Int64("id", 0, "user id")
		name := fs.String("name", "", "new first name")
		surname := fs.String("surname", "", "new last name")
		email := fs.String("email", "", "new email")
		phone := fs.String("phone", "", "new phone number")
		adminRole := fs.String("admin", "", "grant or revoke admin (true|false)")
		_ = fs.Parse(rest)
		if *id == 0 {
			return fmt.Errorf("admin user-update: -id is required")
		}

		update := admin.UserUpdate{}
		changed := false
		for _, field := range []struct {
			value  *string
			target **string
		}{
			{name, &update.Name},
			{surname, &update.Surname},
			{email, &update.Email},
			{phone, &update.Phone},
		} {
			if *field.value != "" {
				*field.target = field.value
				changed = true
			}
		}
		if *adminRole != "" {
			isAdmin, err := strconv.ParseBool(*adminRole)
			if err != nil {
				return fmt.Errorf("admin user-update: -admin expects true or false")
			}
			update.IsAdmin = &isAdmin
			changed = true
		}
		if !changed {
			return fmt.Errorf("admin user-update: nothing to update")
		}

		user, err := a.admin.UpdateUser(ctx, *id, update)
		if err != nil {
			return err
		}
		fmt.Printf("User #%d updated: %s %s <%s> phone=%s admin=%t\n", user.ID, user.Name, user.Surname, user.Email, user.Phone, user.IsAdmin)
		return nil
	case "booking-update":
		fs := flag.NewFlagSet("admin booking-update", flag.ExitOnError)
		id := fs.Int64("id", 0, "booking id")
		date := fs.String("date", "", "new date (YYYY-MM-DD)")
		slot := fs.String("slot", "", "new slot (HH:MM)")
		people := fs.Int("people", 0, "new number of guests")
		notes := fs.String("notes", "", "new visit notes")
		_ = fs.Parse(rest)
		if *id == 0 {
			return fmt.Errorf("admin booking-update: -id is required")
		}

		update := models.UpdateRequestCreate{}
		if *date != "" || *slot != "" {
			if *date == "" || *slot == "" {
				return fmt.Errorf("admin booking-update: -date and -slot go together")
			}
			when, err := time.ParseInLocation("2006-01-02T15:04", *date+"T"+*slot, time.Local)
			if err != nil {
				return fmt.Errorf("admin booking-update: invalid date or slot: %w", err)
			}
			update.RequestedDateTime = &when
		}
		if *people > 0 {
			update.RequestedPeople = people
		}
		if *notes != "" {
			update.RequestedInfoMessage = notes
		}
		if update.RequestedDateTime == nil && update.RequestedPeople == nil && update.RequestedInfoMessage == nil {
			return fmt.Errorf("admin booking-update: nothing to update")
		}

		updated, err := a.admin.UpdateBooking(ctx, *id, update)
		if err != nil {
			return err
		}
		fmt.Printf("Booking #%d updated: %s, %d guests.\n", updated.ID, updated.DateTime.Format("Mon 02 Jan 2006 15:04"), updated.People)
		return nil
	case "user-delete":
		fs := flag.NewFlagSet("admin user-delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "user id")
		_ = fs.Parse(rest)
		if *id == 0 {
			return fmt.Errorf("admin user-delete: -id is required")
		}
		if err := a.admin.DeleteUser(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("User #%d deleted.\n", *id)
		return nil
	case "user-passwd":
		fs := flag.NewFlagSet("admin user-passwd", flag.ExitOnError)
		id := fs.Int64("id", 0, "user id")
		next := fs.String("new", "", "new password")
		_ = fs.Parse(rest)
		if *id == 0 || *next == "" {
			return fmt.Errorf("admin user-passwd: -id and -new are required")
		}
		if err := a.admin.ResetUserPassword(ctx, *id, *next); err != nil {
			return err
		}
		fmt.Printf("Password reset for user #%d.\n", *id)
		return nil
	case "booking-delete":
		fs := flag.NewFlagSet("admin booking-delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "booking id")
		_ = fs.Parse(rest)
		if *id == 0 {
			return fmt.Errorf("admin booking-delete: -id is required")
		}
		if err := a.admin.DeleteBooking(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("Booking #%d deleted.\n", *id)
		return nil
	default:
		return fmt.Errorf("admin: unknown subcommand %q", sub)
	}
}

func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(line), nil
}
