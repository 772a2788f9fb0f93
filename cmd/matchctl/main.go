// Command matchctl runs one-off maintenance against a database-backed deployment,
// such as a manual sweep or an outbox flush. It also issues counter tokens.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"halforder/cmd"
	httpadapter "halforder/internal/adapters/in/http"
	"halforder/internal/adapters/out/seed"
	"halforder/internal/core/application/usecases/commands"
	"halforder/internal/core/application/usecases/queries"
	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
	"github.com/olekukonko/tablewriter"
)

const usage = `usage: matchctl <command> [flags]

commands:
  sweep        expire overdue sessions once
  relay        publish pending outbox messages once
  sessions     list open sessions of a restaurant
  seed         migrate the database and load the demo catalog
  restaurants  list seeded restaurants
  token        issue a role token for the counter API
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Fatalf("matchctl %s: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, command string, args []string, out io.Writer) error {
	switch command {
	case "sweep":
		return sweep(ctx, args, out)
	case "relay":
		return relay(ctx, args, out)
	case "sessions":
		return sessions(ctx, args, out)
	case "seed":
		return seedCatalog(ctx, out)
	case "restaurants":
		return restaurants(out)
	case "token":
		return token(args, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func open(ctx context.Context) (*cmd.CompositionRoot, error) {
	configs, err := cmd.LoadConfig()
	if err != nil {
		return nil, err
	}
	if configs.DBDriver == cmd.DriverMemory {
		return nil, errors.New("DB_DRIVER=memory keeps state inside the server process; point matchctl at postgres or mysql")
	}
	return cmd.NewCompositionRoot(ctx, configs, cmd.NewLogger(configs, os.Stderr), clock.System)
}

func sweep(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	batch := fs.Int("batch", 100, "maximum sessions to expire")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	cmdSweep, err := commands.NewExpireSessionsCommand(*batch)
	if err != nil {
		return err
	}
	handler := app.CreateExpireSessionsCommandHandler()
	result, err := handler.Handle(ctx, cmdSweep)
	if err != nil {
		return err
	}

	return render(out, []string{"Scanned", "Expired", "Skipped", "Failed"}, [][]string{{
		strconv.Itoa(result.Scanned),
		strconv.Itoa(result.Expired),
		strconv.Itoa(result.Skipped),
		strconv.Itoa(result.Failed),
	}})
}

func relay(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("relay", flag.ContinueOnError)
	batch := fs.Int("batch", 100, "maximum messages to publish")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	cmdRelay, err := commands.NewRelayOutboxCommand(*batch)
	if err != nil {
		return err
	}
	handler := app.CreateRelayOutboxCommandHandler()
	result, err := handler.Handle(ctx, cmdRelay)
	if err != nil {
		return err
	}

	return render(out, []string{"Published", "Failed"}, [][]string{{
		strconv.Itoa(result.Published),
		strconv.Itoa(result.Failed),
	}})
}

func sessions(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	restaurant := fs.String("restaurant", "", "restaurant id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	restaurantID, err := kernel.UUIDFromString(*restaurant)
	if err != nil {
		return fmt.Errorf("-restaurant: %w", err)
	}
	query, err := queries.NewListOpenSessionsQuery(restaurantID)
	if err != nil {
		return err
	}

	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	handler := app.CreateListOpenSessionsQueryHandler()
	openSessions, err := handler.Handle(ctx, query)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(openSessions))
	for _, s := range openSessions {
		rows = append(rows, []string{
			s.ID.String(),
			s.MenuItemName,
			s.TableNumber,
			s.CustomerName,
			s.ExpiresAt.Format(time.RFC3339),
		})
	}
	return render(out, []string{"Session", "Item", "Table", "Customer", "Expires"}, rows)
}

// seedCatalog relies on the composition root, which migrates and seeds on open.
// Seeding is idempotent.
func seedCatalog(ctx context.Context, out io.Writer) error {
	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return restaurants(out)
}

func restaurants(out io.Writer) error {
	data := seed.Demo()
	rows := make([][]string, 0, len(data.Restaurants))
	for _, r := range data.Restaurants {
		tables, items := 0, 0
		for _, t := range data.Tables {
			if t.RestaurantID.IsEqual(r.ID) {
				tables++
			}
		}
		for _, m := range data.MenuItems {
			if m.RestaurantID.IsEqual(r.ID) {
				items++
			}
		}
		rows = append(rows, []string{r.ID.String(), r.Name, strconv.Itoa(tables), strconv.Itoa(items)})
	}
	return render(out, []string{"ID", "Name", "Tables", "Menu items"}, rows)
}

func token(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	roleName := fs.String("role", "counter", "customer, counter or super_admin")
	ttl := fs.Duration("ttl", 12*time.Hour, "token lifetime")
	subject := fs.String("sub", "", "token subject")
	if err := fs.Parse(args); err != nil {
		return err
	}

	role, err := kernel.ParseRole(*roleName)
	if err != nil {
		return err
	}
	configs, err := cmd.LoadConfig()
	if err != nil {
		return err
	}

	now := clock.System()
	signed, err := httpadapter.IssueToken([]byte(configs.JWTSecret), role, jwt.RegisteredClaims{
		Subject:   *subject,
		Issuer:    cmd.ServiceName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, signed)
	return err
}

func render(out io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
