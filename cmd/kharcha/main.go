package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"kharcha/internal/cli"
	"kharcha/internal/core"
	"kharcha/internal/services"
	"kharcha/internal/settings"
)

const usage = `Usage: kharcha <command> [flags]

Commands:
  register   Create an account and log in
  login      Log in to an existing account
  logout     Log out and clear this account's local data
  whoami     Show the active account
  add        Record an expense
  list       List expenses (optionally filtered by window)
  delete     Delete an expense by id
  months     List months that have expenses
  stats      Show a month's total and category breakdown
  budget     Show, set or clear the monthly budget
  settings   Show or change preferences
  pin        Set or clear the 4-digit PIN
  export     Write the ledger as a JSON backup blob
  import     Replace the ledger from a JSON backup blob
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("missing command")
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	result := cli.InitStore(logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	ctx := context.Background()
	tracker := services.NewTracker(result.Store)

	command, rest := args[0], args[1:]
	switch command {
	case "register":
		return cmdRegister(ctx, tracker, rest, stdin, stdout)
	case "login":
		return cmdLogin(ctx, tracker, rest, stdin, stdout)
	}

	// Every other command works on the restored session.
	found, err := tracker.RestoreLastSession(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !found {
		return errors.New("not logged in: run 'kharcha login' or 'kharcha register' first")
	}
	if err := unlockIfNeeded(tracker, stdin, stdout); err != nil {
		return err
	}

	switch command {
	case "logout":
		return cmdLogout(ctx, tracker, stdout)
	case "whoami":
		return cmdWhoami(tracker, stdout)
	case "add":
		return cmdAdd(ctx, tracker, rest, stdout)
	case "list":
		return cmdList(tracker, rest, stdout)
	case "delete":
		return cmdDelete(ctx, tracker, rest, stdout)
	case "months":
		return cmdMonths(tracker, stdout)
	case "stats":
		return cmdStats(tracker, rest, stdout)
	case "budget":
		return cmdBudget(ctx, tracker, rest, stdout)
	case "settings":
		return cmdSettings(ctx, tracker, rest, stdout)
	case "pin":
		return cmdPIN(ctx, tracker, rest, stdin, stdout)
	case "export":
		return cmdExport(tracker, stdout)
	case "import":
		return cmdImport(ctx, tracker, rest, stdin, stdout)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdRegister(ctx context.Context, tracker *services.Tracker, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("user", "", "Username")
	displayName := fs.String("name", "", "Display name")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("missing required flag: -user")
	}

	password, err := promptPassword(*passwordFlag, stdin, stdout)
	if err != nil {
		return err
	}
	if err := tracker.Register(ctx, *username, password, *displayName); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Registered and logged in as %s\n", tracker.Session().Account.Username)
	return nil
}

func cmdLogin(ctx context.Context, tracker *services.Tracker, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("missing required flag: -user")
	}

	password, err := promptPassword(*passwordFlag, stdin, stdout)
	if err != nil {
		return err
	}
	if err := tracker.Login(ctx, *username, password); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Logged in as %s\n", tracker.Session().Account.Username)
	return nil
}

func cmdLogout(ctx context.Context, tracker *services.Tracker, stdout io.Writer) error {
	username := tracker.Session().Account.Username
	if err := tracker.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Logged out %s; local data for this account was cleared\n", username)
	return nil
}

func cmdWhoami(tracker *services.Tracker, stdout io.Writer) error {
	sess := tracker.Session()
	name := sess.Account.DisplayName
	if name == "" {
		name = sess.Account.Username
	}
	fmt.Fprintf(stdout, "%s (%s)\n", name, sess.Account.Username)
	return nil
}

func cmdAdd(ctx context.Context, tracker *services.Tracker, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "Expense title")
	note := fs.String("note", "", "Optional note")
	amount := fs.Float64("amount", 0, "Amount spent")
	dateFlag := fs.String("date", "", "Date (YYYY-MM-DD, default today)")
	category := fs.String("category", core.CategoryOther, "Category: "+strings.Join(core.KnownCategories(), ", "))
	if err := fs.Parse(args); err != nil {
		return err
	}

	date := time.Now()
	if *dateFlag != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *dateFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", *dateFlag, err)
		}
		date = parsed
	}

	e, err := tracker.AddExpense(ctx, *title, *note, *amount, date, *category)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added %s: %s%.2f on %s [%s]\n",
		e.ID, tracker.Settings().CurrencySymbol, e.Amount, e.Date.Format("2006-01-02"), e.Category)
	return nil
}

func cmdList(tracker *services.Tracker, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	windowFlag := fs.String("window", "all", "Time window: today, week, month or all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	window := core.TimeWindow(*windowFlag)
	if !window.IsValid() {
		return fmt.Errorf("invalid window %q", *windowFlag)
	}

	expenses, err := tracker.FilterByWindow(window, time.Now())
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(stdout, "No expenses")
		return nil
	}

	symbol := tracker.Settings().CurrencySymbol
	for _, e := range expenses {
		line := fmt.Sprintf("%s  %s  %s%.2f  %-13s %s",
			e.ID, e.Date.Format("2006-01-02"), symbol, e.Amount, e.Category, e.Title)
		if e.Note != nil {
			line += "  (" + *e.Note + ")"
		}
		fmt.Fprintln(stdout, line)
	}
	return nil
}

func cmdDelete(ctx context.Context, tracker *services.Tracker, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "Expense id to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("missing required flag: -id")
	}

	removed, err := tracker.DeleteExpense(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted %q (%s%.2f)\n", removed.Title, tracker.Settings().CurrencySymbol, removed.Amount)
	return nil
}

func cmdMonths(tracker *services.Tracker, stdout io.Writer) error {
	months, err := tracker.MonthsWithData()
	if err != nil {
		return err
	}
	if len(months) == 0 {
		fmt.Fprintln(stdout, "No expenses recorded yet")
		return nil
	}
	for _, ym := range months {
		fmt.Fprintf(stdout, "%04d-%02d\n", ym.Year, ym.Month)
	}
	return nil
}

func cmdStats(tracker *services.Tracker, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	monthFlag := fs.String("month", "", "Month to summarize (YYYY-MM, default latest with data)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var year, month int
	if *monthFlag != "" {
		parsed, err := time.Parse("2006-01", *monthFlag)
		if err != nil {
			return fmt.Errorf("invalid month %q: %w", *monthFlag, err)
		}
		year, month = parsed.Year(), int(parsed.Month())
	} else {
		latest, ok, err := tracker.LatestMonthWithData()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "No expenses recorded yet")
			return nil
		}
		year, month = latest.Year, latest.Month
	}

	overview, err := tracker.MonthOverview(year, month)
	if err != nil {
		return err
	}

	symbol := tracker.Settings().CurrencySymbol
	fmt.Fprintf(stdout, "%04d-%02d total: %s%.2f\n", year, month, symbol, overview.Total)
	for _, ca := range overview.ByCategory {
		fmt.Fprintf(stdout, "  %-13s %s%.2f\n", ca.Name, symbol, ca.Amount)
	}

	remaining, set, err := tracker.RemainingBudget(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local))
	if err != nil {
		return err
	}
	if set {
		fmt.Fprintf(stdout, "Budget remaining: %s%.2f\n", symbol, remaining)
	}
	return nil
}

func cmdBudget(ctx context.Context, tracker *services.Tracker, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("budget", flag.ContinueOnError)
	set := fs.String("set", "", "Set the monthly budget to this amount")
	clear := fs.Bool("clear", false, "Remove the monthly budget")
	if err := fs.Parse(args); err != nil {
		return err
	}

	symbol := tracker.Settings().CurrencySymbol
	switch {
	case *clear:
		if err := tracker.ClearMonthlyBudget(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Monthly budget cleared")
	case *set != "":
		amount, err := strconv.ParseFloat(*set, 64)
		if err != nil {
			return fmt.Errorf("invalid budget %q: %w", *set, err)
		}
		if err := tracker.SetMonthlyBudget(ctx, amount); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Monthly budget set to %s%.2f\n", symbol, amount)
	default:
		budget := tracker.Settings().MonthlyBudget
		if budget == nil {
			fmt.Fprintln(stdout, "No monthly budget set")
			return nil
		}
		fmt.Fprintf(stdout, "Monthly budget: %s%.2f\n", symbol, *budget)
	}
	return nil
}

func cmdSettings(ctx context.Context, tracker *services.Tracker, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	theme := fs.String("theme", "", "Theme mode: light or dark")
	currency := fs.String("currency", "", "Currency symbol")
	reminder := fs.String("reminder", "", "Daily reminder: on or off")
	if err := fs.Parse(args); err != nil {
		return err
	}

	changed := false
	if *theme != "" {
		if err := tracker.SetTheme(ctx, settings.DecodeThemeMode(*theme)); err != nil {
			return err
		}
		changed = true
	}
	if *currency != "" {
		if err := tracker.SetCurrencySymbol(ctx, *currency); err != nil {
			return err
		}
		changed = true
	}
	if *reminder != "" {
		if err := tracker.SetDailyReminder(ctx, *reminder == "on"); err != nil {
			return err
		}
		changed = true
	}

	prefs := tracker.Settings()
	if changed {
		fmt.Fprintln(stdout, "Settings updated")
	}
	fmt.Fprintf(stdout, "theme=%s currency=%s reminder=%v pin=%v\n",
		prefs.Theme, prefs.CurrencySymbol, prefs.DailyReminder, prefs.PINEnabled())
	return nil
}

func cmdPIN(ctx context.Context, tracker *services.Tracker, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("pin", flag.ContinueOnError)
	clear := fs.Bool("clear", false, "Remove the PIN lock")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *clear {
		if err := tracker.ClearPIN(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "PIN removed")
		return nil
	}

	fmt.Fprint(stdout, "New PIN (4 digits): ")
	pin, err := readSecret(stdin)
	if err != nil {
		return fmt.Errorf("failed to read PIN: %w", err)
	}
	fmt.Fprintln(stdout)
	if err := tracker.SetPIN(ctx, pin); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "PIN set; you will be asked for it on the next command")
	return nil
}

func cmdExport(tracker *services.Tracker, stdout io.Writer) error {
	blob, err := tracker.ExportBackup()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, blob)
	return nil
}

func cmdImport(ctx context.Context, tracker *services.Tracker, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	file := fs.String("file", "", "Backup file to read (default stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var blob []byte
	var err error
	if *file != "" {
		blob, err = os.ReadFile(*file)
	} else {
		blob, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	if err := tracker.RestoreBackup(ctx, string(blob)); err != nil {
		return err
	}
	expenses, err := tracker.Expenses()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Restored %d expenses\n", len(expenses))
	return nil
}

// unlockIfNeeded prompts for the PIN when the restored session is locked.
func unlockIfNeeded(tracker *services.Tracker, stdin io.Reader, stdout io.Writer) error {
	sess := tracker.Session()
	if sess == nil || sess.Unlocked {
		return nil
	}
	fmt.Fprint(stdout, "PIN: ")
	pin, err := readSecret(stdin)
	if err != nil {
		return fmt.Errorf("failed to read PIN: %w", err)
	}
	fmt.Fprintln(stdout)
	return tracker.VerifyPIN(pin)
}

func promptPassword(fromFlag string, stdin io.Reader, stdout io.Writer) (string, error) {
	if fromFlag != "" {
		return fromFlag, nil
	}
	fmt.Fprint(stdout, "Password: ")
	password, err := readSecret(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(stdout)
	return password, nil
}

func readSecret(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
