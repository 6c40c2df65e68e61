package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"smartspend/internal/api"
	"smartspend/internal/authflow"
	"smartspend/internal/cli"
	"smartspend/internal/config"
	"smartspend/internal/core"
	"smartspend/internal/session"
	"smartspend/internal/viewmodel"
)

const usage = `smartspend - personal finance client

Usage: smartspend <command> [flags]

Commands:
  login             Sign in and persist the session
  signup            Create a new account
  logout            Clear the stored session
  session           Show the stored session and token claims
  expenses          List all expenses with a summary
  incomes           List all incomes with a summary
  add               Add an expense or income
  categories        List categories
  stats             Show totals, averages and net balance
  recommendations   Show spending advice for a period
  forgot-password   Request a password-reset code
  reset-password    Verify a reset code and set a new password
  change-password   Change the password of the signed-in user
  currency          Show or set the display currency
`

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	flow   *authflow.Flow
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.InitSessionStore(logger, cfg.SessionDBPath)
	defer store.Close()

	client := api.NewClient(cfg)
	a := &app{
		cfg:    cfg,
		client: client,
		store:  store,
		flow:   authflow.New(client, store),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "login":
		err = a.login(ctx, args)
	case "signup":
		err = a.signup(ctx, args)
	case "logout":
		err = a.logout(ctx)
	case "session":
		err = a.session(ctx)
	case "expenses":
		err = a.transactions(ctx, core.ExpenseKind)
	case "incomes":
		err = a.transactions(ctx, core.IncomeKind)
	case "add":
		err = a.add(ctx, args)
	case "categories":
		err = a.categories(ctx)
	case "stats":
		err = a.stats(ctx)
	case "recommendations":
		err = a.recommendations(ctx, args)
	case "forgot-password":
		err = a.forgotPassword(ctx, args)
	case "reset-password":
		err = a.resetPassword(ctx, args)
	case "change-password":
		err = a.changePassword(ctx)
	case "currency":
		err = a.currency(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, authflow.UserMessage(err))
		os.Exit(1)
	}
}

// requireToken returns the current token or fails the command when no
// valid session is stored.
func (a *app) requireToken(ctx context.Context) (string, error) {
	sess, err := a.store.Current(ctx)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", fmt.Errorf("%s (run `smartspend login`)", authflow.MsgNotSignedIn)
	}
	return sess.Token, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	remember := fs.Bool("remember", false, "remember the email for the next login")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// A still-valid session skips the credential prompt entirely.
	if sess, err := a.flow.AutoSignIn(ctx); err == nil && sess != nil {
		fmt.Printf("Already signed in (session valid until %s).\n",
			sess.ExpiresAt().Format(time.RFC1123))
		return nil
	}

	addr := *email
	if addr == "" {
		remembered, err := a.store.RememberedEmail(ctx)
		if err != nil {
			return err
		}
		label := "Email"
		if remembered != "" {
			label = fmt.Sprintf("Email [%s]", remembered)
		}
		addr, err = cli.Prompt(os.Stdin, os.Stdout, label)
		if err != nil {
			return err
		}
		if addr == "" {
			addr = remembered
		}
	}

	password, err := cli.PromptPassword(os.Stdin, os.Stdout, "Password")
	if err != nil {
		return err
	}

	if err := a.flow.SignIn(ctx, addr, password, *remember); err != nil {
		return err
	}
	fmt.Println(authflow.MsgSignedIn)
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	fullName := *name
	if fullName == "" {
		if fullName, err = cli.Prompt(os.Stdin, os.Stdout, "Full name"); err != nil {
			return err
		}
	}
	addr := *email
	if addr == "" {
		if addr, err = cli.Prompt(os.Stdin, os.Stdout, "Email"); err != nil {
			return err
		}
	}
	password, err := cli.PromptPassword(os.Stdin, os.Stdout, "Password")
	if err != nil {
		return err
	}
	confirm, err := cli.PromptPassword(os.Stdin, os.Stdout, "Confirm password")
	if err != nil {
		return err
	}

	user, err := a.flow.SignUp(ctx, fullName, addr, password, confirm)
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s. Sign in with `smartspend login`.\n", user.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.flow.SignOut(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func (a *app) session(ctx context.Context) error {
	sess, err := a.store.Current(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		fmt.Println("No session stored.")
		return nil
	}

	fmt.Printf("Signed in since %s\n", sess.IssuedAt.Format(time.RFC1123))
	fmt.Printf("Session valid until %s\n", sess.ExpiresAt().Format(time.RFC1123))

	info, err := session.InspectToken(sess.Token)
	if err != nil {
		// opaque tokens have nothing to show
		return nil
	}
	if info.Subject != "" {
		fmt.Printf("Subject: %s\n", info.Subject)
	}
	if info.Email != "" {
		fmt.Printf("Email: %s\n", info.Email)
	}
	if !info.ExpiresAt.IsZero() {
		fmt.Printf("Token claims expiry: %s\n", info.ExpiresAt.Format(time.RFC1123))
	}
	return nil
}

func (a *app) transactions(ctx context.Context, kind core.TransactionKind) error {
	token, err := a.requireToken(ctx)
	if err != nil {
		return err
	}
	currency, err := a.store.Currency(ctx, a.cfg.DefaultCurrency)
	if err != nil {
		return err
	}

	var vm *viewmodel.TransactionsViewModel
	if kind == core.ExpenseKind {
		vm = viewmodel.NewExpenses(a.client)
	} else {
		vm = viewmodel.NewIncomes(a.client)
	}
	vm.Fetch(ctx, token)

	snap := vm.Snapshot()
	if snap.Err != "" {
		return fmt.Errorf("%s", snap.Err)
	}

	for _, t := range snap.Data {
		fmt.Printf("%-12s %10s  %-20s %s\n",
			displayDate(t), core.FormatAmount(t.Amount, currency), t.Category, t.Description)
	}

	sum := vm.Summary()
	fmt.Printf("\n%d %s, total %s, average %s\n",
		sum.Count, strings.ToLower(string(kind))+"s",
		core.FormatAmount(sum.Total, currency),
		core.FormatAmount(sum.Average, currency))
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	kindFlag := fs.String("kind", "expense", "expense or income")
	amountFlag := fs.String("amount", "", "amount, e.g. 12.34")
	description := fs.String("description", "", "what the money was for")
	category := fs.String("category", "", "category id")
	date := fs.String("date", "", "RFC3339 date, defaults to now")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var kind core.TransactionKind
	switch strings.ToLower(*kindFlag) {
	case "expense":
		kind = core.ExpenseKind
	case "income":
		kind = core.IncomeKind
	default:
		return core.ErrInvalidKind
	}

	amount, err := core.ParseAmount(*amountFlag)
	if err != nil {
		return fmt.Errorf("invalid -amount %q: %w", *amountFlag, err)
	}

	token, err := a.requireToken(ctx)
	if err != nil {
		return err
	}

	err = a.client.CreateTransaction(ctx, token, kind, core.NewTransaction{
		Amount:      amount,
		Description: *description,
		Date:        *date,
		Category:    *category,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s added.\n", kind)
	return nil
}

func (a *app) categories(ctx context.Context) error {
	token, err := a.requireToken(ctx)
	if err != nil {
		return err
	}

	categories, err := a.client.Categories(ctx, token)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%-24s %-8s %s\n", c.ID, c.Type, c.Name)
	}
	return nil
}

func (a *app) stats(ctx context.Context) error {
	token, err := a.requireToken(ctx)
	if err != nil {
		return err
	}
	currency, err := a.store.Currency(ctx, a.cfg.DefaultCurrency)
	if err != nil {
		return err
	}

	vm := viewmodel.NewStatistics(a.client)
	vm.Fetch(ctx, token)
	if msg := vm.Err(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	stats := vm.Statistics()
	fmtAmt := func(v float64) string { return core.FormatAmount(v, currency) }

	fmt.Printf("Total expenses:   %s\n", fmtAmt(stats.Expenses.Total))
	fmt.Printf("Total incomes:    %s\n", fmtAmt(stats.Incomes.Total))
	fmt.Printf("Net balance:      %s\n", fmtAmt(stats.NetBalance))
	fmt.Printf("Average expense:  %s\n", fmtAmt(stats.Expenses.Average))
	fmt.Printf("Average income:   %s\n", fmtAmt(stats.Incomes.Average))
	fmt.Printf("Highest expense:  %s\n", fmtAmt(stats.Expenses.Highest))
	fmt.Printf("Highest income:   %s\n", fmtAmt(stats.Incomes.Highest))
	return nil
}

func (a *app) recommendations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recommendations", flag.ExitOnError)
	period := fs.String("period", "", "period as yyyy/MM, defaults to the backend's choice")
	refresh := fs.Bool("refresh", false, "bypass the per-session cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *period != "" {
		if _, err := time.Parse("2006/01", *period); err != nil {
			return fmt.Errorf("invalid -period %q: want yyyy/MM", *period)
		}
	}

	token, err := a.requireToken(ctx)
	if err != nil {
		return err
	}

	vm := viewmodel.NewRecommendations(a.client, a.cfg.RecommendationSize, a.cfg.RecommendationTTL)
	if *refresh {
		vm.Refresh(ctx, token, *period)
	} else {
		vm.Fetch(ctx, token, *period)
	}

	snap := vm.Snapshot()
	if snap.Err != "" {
		return fmt.Errorf("%s", snap.Err)
	}
	if len(snap.Data.Suggestions) == 0 {
		fmt.Println("No recommendations yet.")
		return nil
	}
	for _, s := range snap.Data.Suggestions {
		fmt.Printf("%-20s %s\n", s.Category, s.Advice)
	}
	return nil
}

func (a *app) forgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr := *email
	var err error
	if addr == "" {
		if addr, err = cli.Prompt(os.Stdin, os.Stdout, "Email"); err != nil {
			return err
		}
	}

	if err := a.flow.RequestReset(ctx, addr); err != nil {
		return err
	}
	fmt.Printf(authflow.MsgResetCodeSent+"\n", addr)
	return nil
}

func (a *app) resetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	code := fs.String("code", "", "6-digit code from the reset email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	digits := *code
	var err error
	if digits == "" {
		if digits, err = cli.Prompt(os.Stdin, os.Stdout, "6-digit code"); err != nil {
			return err
		}
	}

	if err := a.flow.VerifyCode(ctx, digits); err != nil {
		return err
	}

	newPassword, err := cli.PromptPassword(os.Stdin, os.Stdout, "New password")
	if err != nil {
		return err
	}
	if err := a.flow.ResetPassword(ctx, digits, newPassword); err != nil {
		return err
	}
	fmt.Println(authflow.MsgPasswordReset)
	return nil
}

func (a *app) changePassword(ctx context.Context) error {
	oldPassword, err := cli.PromptPassword(os.Stdin, os.Stdout, "Current password")
	if err != nil {
		return err
	}
	newPassword, err := cli.PromptPassword(os.Stdin, os.Stdout, "New password")
	if err != nil {
		return err
	}

	if err := a.flow.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}
	fmt.Println(authflow.MsgPasswordChanged)
	return nil
}

func (a *app) currency(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("currency", flag.ExitOnError)
	set := fs.String("set", "", "ISO currency code to store, e.g. EUR")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *set != "" {
		code := strings.ToUpper(*set)
		if len(code) != 3 {
			return fmt.Errorf("invalid currency code %q: want a 3-letter ISO code", *set)
		}
		if err := a.store.SetCurrency(ctx, code); err != nil {
			return err
		}
		fmt.Printf("Display currency set to %s (%s).\n", code, core.CurrencySymbol(code))
		return nil
	}

	code, err := a.store.Currency(ctx, a.cfg.DefaultCurrency)
	if err != nil {
		return err
	}
	fmt.Printf("Display currency: %s (%s)\n", code, core.CurrencySymbol(code))
	return nil
}

func displayDate(t core.Transaction) string {
	if ts, err := t.When(); err == nil {
		return ts.Format("2006-01-02")
	}
	return t.Date
}
