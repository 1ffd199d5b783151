// Command recurring genera las facturas hijas de todas las recurrentes vencidas.
// Pensado para ejecutarse a diario desde cron o un scheduler del orquestador.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/jhoicas/Orbita-api/internal/application/billing"
	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/infrastructure/notify"
	"github.com/jhoicas/Orbita-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Orbita-api/pkg/config"
	"github.com/jhoicas/Orbita-api/pkg/logger"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool `help:"Enable debug logging."`
		Version kong.VersionFlag
		Run     RunCmd  `cmd:"" default:"1" help:"Generate child invoices for every due recurring invoice."`
		List    ListCmd `cmd:"" help:"List recurring invoices due at the given date without generating anything."`
	}
)

// Globals dependencias compartidas por los subcomandos.
type Globals struct {
	Config *config.Config
}

// RunCmd ejecuta el lote de recurrentes.
type RunCmd struct {
	AsOf string `help:"Reference date (YYYY-MM-DD); defaults to today in UTC." name:"as-of"`
}

func (r *RunCmd) Run(ctx context.Context, g *Globals) error {
	asOf, err := parseAsOf(r.AsOf)
	if err != nil {
		return err
	}

	// El lote recorre todas las organizaciones: usa la conexión de servicio.
	pool, err := postgres.NewPool(ctx, g.Config.DB.Service(), recurringPool(4))
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	numbers := billing.NewNumberGenerator(postgres.NewInvoiceSequence(pool), invoiceRepo, billing.NumberGeneratorConfig{
		Attempts:        g.Config.Invoice.NumberAttempts,
		InitialInterval: g.Config.Invoice.NumberBackoff(),
	})
	var notifiers []billing.Notifier
	if g.Config.Notify.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(g.Config.Notify.SlackWebhookURL, nil))
	}
	uc := billing.NewInvoiceUseCase(
		invoiceRepo,
		postgres.NewPaymentRepository(pool),
		postgres.NewOrganizationRepository(pool),
		postgres.NewActivityRepository(pool),
		numbers,
		postgres.NewTxRunner(pool),
		notifiers,
		billing.Config{
			DefaultPrefix:          g.Config.Invoice.Prefix,
			TransactionalLineItems: g.Config.Invoice.TransactionalLineItems,
		},
	)
	defer uc.Wait()

	res, err := uc.GenerateDueRecurring(ctx, asOf)
	if err != nil {
		return err
	}
	if err := printJSON(res); err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d recurring invoice(s) failed", res.Failed)
	}
	return nil
}

// ListCmd muestra las recurrentes vencidas sin generar nada.
type ListCmd struct {
	AsOf string `help:"Reference date (YYYY-MM-DD); defaults to today in UTC." name:"as-of"`
}

// recurringPool perfil de servicio identificado como el proceso batch.
func recurringPool(maxConns int32) postgres.PoolOptions {
	opts := postgres.ServicePool
	opts.Name = "orbita-recurring"
	opts.MaxConns = maxConns
	return opts
}

func (l *ListCmd) Run(ctx context.Context, g *Globals) error {
	asOf, err := parseAsOf(l.AsOf)
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, g.Config.DB.Service(), recurringPool(1))
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	due, err := postgres.NewInvoiceRepository(pool).ListDueRecurring(ctx, asOf)
	if err != nil {
		return err
	}
	type row struct {
		ID              string `json:"id"`
		OrganizationID  string `json:"organization_id"`
		InvoiceNumber   string `json:"invoice_number"`
		Frequency       string `json:"frequency"`
		NextInvoiceDate string `json:"next_invoice_date"`
	}
	rows := make([]row, 0, len(due))
	for _, inv := range due {
		r := row{ID: inv.ID, OrganizationID: inv.OrganizationID, InvoiceNumber: inv.InvoiceNumber, Frequency: inv.RecurringFrequency}
		if inv.NextInvoiceDate != nil {
			r.NextInvoiceDate = inv.NextInvoiceDate.Format(dto.DateLayout)
		}
		rows = append(rows, r)
	}
	return printJSON(rows)
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of: expected YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("recurring"),
		kong.Description("Recurring invoice generator."),
		kong.Vars{"version": version},
	)

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)

	level := cfg.App.LogLevel
	if cli.Debug {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Output: os.Stderr, Service: "orbita-recurring"})
	ctx := log.WithContext(context.Background())

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(&Globals{Config: cfg})
	kctx.FatalIfErrorf(err)
}
