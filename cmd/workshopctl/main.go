// File: cmd/workshopctl/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"workshop-voice-assistant/internal/config"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/domain/ports/repository"
	"workshop-voice-assistant/internal/infra/api"
	pg "workshop-voice-assistant/internal/infra/db/postgres"
	"workshop-voice-assistant/internal/infra/db/sqlite"
	"workshop-voice-assistant/internal/usecase"
)

const usage = `usage: workshopctl [-config config.yaml] <command> [flags]

commands:
  init-db                               create the jobs table if it does not exist
  add-job -specs S [-customer C] [-price P]
  list-jobs [-all]                      pending jobs, or every job with -all
  token [-subject S]                    mint an admin bearer token for /api/v1/jobs
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "workshopctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	global := flag.NewFlagSet("workshopctl", flag.ContinueOnError)
	cfgPath := global.String("config", "config.yaml", "path to YAML config file")
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.ReadConfig(*cfgPath, false)
	if err != nil {
		return err
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	if cmd == "token" {
		return mintToken(cfg, rest, out)
	}

	if err := cfg.ValidateStore(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := openJobRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()
	jobs := usecase.NewJobUseCase(repo)

	switch cmd {
	case "init-db":
		if err := jobs.InitSchema(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Initialized the database.")
		return nil
	case "add-job":
		return addJob(ctx, jobs, rest, out)
	case "list-jobs":
		return listJobs(ctx, jobs, rest, out)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func addJob(ctx context.Context, jobs usecase.JobUseCase, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add-job", flag.ContinueOnError)
	specs := fs.String("specs", "", "motor specs (required)")
	customer := fs.String("customer", "", "customer name")
	price := fs.String("price", "", "quoted price")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		customerPtr *string
		pricePtr    *float64
	)
	if *customer != "" {
		customerPtr = customer
	}
	if *price != "" {
		p, err := strconv.ParseFloat(*price, 64)
		if err != nil {
			return fmt.Errorf("invalid -price %q", *price)
		}
		pricePtr = &p
	}

	j, err := jobs.Create(ctx, customerPtr, *specs, pricePtr)
	if err != nil {
		return fmt.Errorf("add job: %w", err)
	}
	fmt.Fprintf(out, "job %d created (%s)\n", j.ID, j.Status)
	return nil
}

func listJobs(ctx context.Context, jobs usecase.JobUseCase, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list-jobs", flag.ContinueOnError)
	all := fs.Bool("all", false, "include jobs that are not pending")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		list []*model.Job
		err  error
	)
	if *all {
		list, err = jobs.List(ctx)
	} else {
		list, err = jobs.ListPending(ctx)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tSPECS\tSTATUS\tPRICE\tPAID\tCREATED")
	for _, j := range list {
		customer, price := "-", "-"
		if j.CustomerName != nil {
			customer = *j.CustomerName
		}
		if j.Price != nil {
			price = strconv.FormatFloat(*j.Price, 'f', -1, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\t%s\n",
			j.ID, customer, j.MotorSpecs, j.Status, price, j.PaymentReceived, j.DateCreated.UTC().Format(model.DateLayout))
	}
	return tw.Flush()
}

func mintToken(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", "admin", "token subject")
	if err := fs.Parse(args); err != nil {
		return err
	}
	auth := api.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	if auth == nil {
		return errors.New("admin.jwt_secret (or ADMIN_JWT_SECRET) is not set")
	}
	tok, err := auth.Mint(*subject)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok)
	return nil
}

func openJobRepo(ctx context.Context, cfg *config.Config) (repository.JobRepository, error) {
	if cfg.Database.Driver == "postgres" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, err
		}
		return pg.NewPostgresJobRepo(pool), nil
	}
	db, err := sqlite.Open(ctx, cfg.Database.Path, int(cfg.Database.MaxConns))
	if err != nil {
		return nil, err
	}
	return sqlite.NewJobRepo(db), nil
}
