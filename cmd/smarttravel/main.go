// Command smarttravel is the SmartTravel CLI: plan trips from the terminal,
// chat with the concierge, or run the HTTP API.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/smarttravel/smarttravel/config"
	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/engine"
	"github.com/smarttravel/smarttravel/logging"
	"github.com/smarttravel/smarttravel/model"
	"github.com/smarttravel/smarttravel/model/anthropic"
	"github.com/smarttravel/smarttravel/model/gemini"
	"github.com/smarttravel/smarttravel/model/openai"
	"github.com/smarttravel/smarttravel/server"
	"github.com/smarttravel/smarttravel/session"
	"github.com/smarttravel/smarttravel/travel"
)

var version = "dev"

type cli struct {
	Config    string `short:"c" help:"Path to a YAML config file."`
	LogLevel  string `help:"Log level: debug, info, warn or error." default:"info"`
	LogFormat string `help:"Log format: text or json." default:"text"`
	Provider  string `help:"Model provider override: gemini, openai, anthropic or mock."`
	Model     string `help:"Model name override."`

	Plan    planCmd    `cmd:"" help:"Plan a trip and print the itinerary."`
	Chat    chatCmd    `cmd:"" help:"Chat with the travel concierge."`
	Serve   serveCmd   `cmd:"" help:"Run the SmartTravel HTTP API."`
	Version versionCmd `cmd:"" help:"Print the version."`
}

type appContext struct {
	cfg    config.Config
	logger logging.Logger
}

func (c *cli) buildAppContext() (*appContext, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}

	if c.Provider != "" {
		cfg.Model.Provider = c.Provider
	}
	if c.Model != "" {
		cfg.Model.Name = c.Model
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = c.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLogLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		Output:    os.Stderr,
		Component: "smarttravel",
	})

	return &appContext{cfg: cfg, logger: logger}, nil
}

func buildModel(cfg config.Config) (model.Model, error) {
	if err := cfg.ValidateModel(); err != nil {
		return nil, err
	}

	switch cfg.Model.Provider {
	case "gemini":
		return gemini.NewModel(func(o *gemini.Options) {
			o.Model = cfg.Model.Name
			o.Temperature = cfg.Model.Temperature
			o.TopP = cfg.Model.TopP
			o.APIKey = cfg.Keys.Gemini
		})
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			o.Model = cfg.Model.Name
			o.Temperature = cfg.Model.Temperature
			o.APIKey = cfg.Keys.OpenAI
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = cfg.Model.Name
			o.Temperature = cfg.Model.Temperature
			o.APIKey = cfg.Keys.Anthropic
		}), nil
	case "mock":
		return model.NewMockModel(cfg.Model.Name, "mock"), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

// agentRoster lists the agents behind the concierge pipeline, for /status.
var agentRoster = []string{
	"Concierge", "SearchStage",
	"FlightAgent", "HotelAgent", "AttractionAgent", "RestaurantAgent", "WeatherAgent",
	"BudgetAgent", "CurrencyAgent", "ItineraryAgent",
}

// buildPlanner assembles the selected planner. The catalog planner needs no
// model; the concierge planner builds one and runs the full agent pipeline.
func buildPlanner(app *appContext, mode string) (server.Planner, error) {
	switch mode {
	case "catalog":
		return server.DomainPlanner{}, nil
	case "concierge":
		llm, err := buildModel(app.cfg)
		if err != nil {
			return nil, err
		}

		store := session.NewInMemoryStore()

		eng := engine.New(
			engine.WithLogger(app.logger),
			engine.WithSessionStore(store),
		)

		concierge := travel.NewConcierge(llm)
		eng.Register(concierge)

		return server.ConciergePlanner{
			Engine:    eng,
			Sessions:  store,
			AgentName: concierge.Name(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown planner %q, expected concierge or catalog", mode)
	}
}

type planCmd struct {
	Destination string  `arg:"" help:"Destination city."`
	Start       string  `help:"Trip start date (YYYY-MM-DD)." required:""`
	End         string  `help:"Trip end date (YYYY-MM-DD)." required:""`
	Origin      string  `help:"Departure city."`
	Budget      float64 `help:"Total trip budget."`
	Travelers   int     `help:"Number of travelers." default:"1"`
	Planner     string  `help:"Planner: catalog or concierge." default:"catalog" enum:"catalog,concierge"`
}

func (p *planCmd) Run(app *appContext) error {
	planner, err := buildPlanner(app, p.Planner)
	if err != nil {
		return err
	}

	itin, err := planner.PlanTrip(context.Background(), travel.TripRequest{
		Destination: p.Destination,
		Origin:      p.Origin,
		StartDate:   p.Start,
		EndDate:     p.End,
		Budget:      p.Budget,
		Travelers:   p.Travelers,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(itin, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	if p.Budget > 0 {
		alloc := travel.AllocateBudget(p.Budget, "USD", itin.DurationDays)
		fmt.Printf("\nBudget tier: %s (%.2f/day)\n", alloc.Tier, alloc.DailyBudget)

		for _, tip := range travel.MoneySavingTips(alloc.Tier, itin.DurationDays) {
			fmt.Println("  -", tip)
		}
	}

	return nil
}

type chatCmd struct {
	Session string `help:"Session ID to resume." default:"default"`
}

func (c *chatCmd) Run(app *appContext) error {
	llm, err := buildModel(app.cfg)
	if err != nil {
		return err
	}

	eng := engine.New(
		engine.WithLogger(app.logger),
		engine.WithSessionStore(session.NewInMemoryStore()),
	)
	eng.Register(travel.NewConcierge(llm))

	fmt.Println("SmartTravel concierge ready. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		_, events, err := eng.InvokeSync(context.Background(), c.Session, "Concierge", core.Content{
			Role:  "user",
			Parts: []core.Part{core.TextPart{Text: line}},
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}

		for _, ev := range events {
			if ev.Content == nil || ev.IsPartial() {
				continue
			}

			for _, part := range ev.Content.Parts {
				if text, ok := part.(core.TextPart); ok && text.Text != "" {
					fmt.Printf("[%s] %s\n", ev.Author, text.Text)
				}
			}
		}
	}
}

type serveCmd struct {
	Addr    string `help:"Listen address, overrides config host/port."`
	Planner string `help:"Planner: concierge or catalog, overrides config."`
}

func (s *serveCmd) Run(app *appContext) error {
	addr := s.Addr
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", app.cfg.Server.Host, app.cfg.Server.Port)
	}

	mode := s.Planner
	if mode == "" {
		mode = app.cfg.Server.Planner
	}

	planner, err := buildPlanner(app, mode)
	if err != nil {
		return err
	}

	srv := server.New(planner, func(o *server.Options) {
		o.Logger = app.logger
		o.Version = version

		if mode == "concierge" {
			o.Agents = agentRoster
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, addr)
}

type versionCmd struct{}

func (versionCmd) Run() error {
	fmt.Println("smarttravel", version)
	return nil
}

func main() {
	var c cli

	kctx := kong.Parse(&c,
		kong.Name("smarttravel"),
		kong.Description("Multi-agent AI travel concierge."),
		kong.UsageOnError(),
	)

	// The version command must work without a valid configuration.
	if kctx.Command() == "version" {
		kctx.FatalIfErrorf(kctx.Run())
		return
	}

	app, err := c.buildAppContext()
	kctx.FatalIfErrorf(err)

	kctx.FatalIfErrorf(kctx.Run(app))
}
