package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/kan/sheetorm/bluesky"
	"github.com/kan/sheetorm/config"
	"github.com/kan/sheetorm/fitbit"
	"github.com/kan/sheetorm/logging"
	"github.com/kan/sheetorm/sheet"
	"github.com/kan/sheetorm/weightlog"
)

type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func main() {
	a := &app{}

	suffixFlag := &cli.StringFlag{
		Name:    "suffix",
		Usage:   "Sheet name suffix (e.g. 2024 selects \"Weight 2024\")",
		Aliases: []string{"s"},
	}
	dateFlag := &cli.StringFlag{
		Name:        "date",
		Usage:       "Date weight was recorded (e.g. 2006-01-02)",
		Aliases:     []string{"d"},
		DefaultText: "today",
	}
	dryRunFlag := &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Print instead of writing",
	}

	cliApp := &cli.App{
		Name:  "sheetorm",
		Usage: "Keep Fitbit weight logs in a Google Sheets spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML configuration file",
				Aliases: []string{"c"},
				EnvVars: []string{"SHEETORM_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			{
				Name:   "titles",
				Usage:  "List the sheet titles of the spreadsheet",
				Action: a.titles,
			},
			{
				Name:  "names",
				Usage: "List the suffixes of sheets whose title contains --title",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Value: weightlog.Entry{}.SheetName()},
				},
				Action: a.names,
			},
			{
				Name:   "create",
				Usage:  "Create the weight sheet and its header row",
				Flags:  []cli.Flag{suffixFlag},
				Action: a.create,
			},
			{
				Name:   "sync",
				Usage:  "Append the Fitbit weight logs of a day that are not in the sheet yet",
				Flags:  []cli.Flag{suffixFlag, dateFlag, dryRunFlag},
				Action: a.sync,
			},
			{
				Name:  "list",
				Usage: "Print the weight entries stored in the sheet",
				Flags: []cli.Flag{
					suffixFlag,
					&cli.IntFlag{Name: "skip-rows", Value: 1, Usage: "Leading rows to skip"},
				},
				Action: a.list,
			},
			{
				Name:   "tidy",
				Usage:  "Remove duplicated entries and sort the sheet by date",
				Flags:  []cli.Flag{suffixFlag, dryRunFlag},
				Action: a.tidy,
			},
			{
				Name:   "post",
				Usage:  "Post the weight of a day from the sheet to Bluesky",
				Flags:  []cli.Flag{suffixFlag, dateFlag, dryRunFlag},
				Action: a.post,
			},
			{
				Name:      "cell",
				Usage:     "Write a raw value into one cell",
				ArgsUsage: "<range> <value>",
				Action:    a.cell,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func (a *app) setup(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if lvl := ctx.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	logging.Configure(logging.Config{Level: cfg.LogLevel, Console: cfg.LogConsole})
	a.cfg = cfg
	a.log = logging.WithComponent("cli")

	return nil
}

func (a *app) sheetClient(ctx *cli.Context) (*sheet.Client, error) {
	return sheet.New(ctx.Context, a.cfg.Sheet(), nil, sheet.WithLogger(logging.WithComponent("sheet")))
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, errors.WithStack(err)
	}
	return d, nil
}

func (a *app) titles(ctx *cli.Context) error {
	c, err := a.sheetClient(ctx)
	if err != nil {
		return err
	}
	titles, err := c.Titles(ctx.Context)
	if err != nil {
		return err
	}
	for _, t := range titles {
		fmt.Println(t)
	}
	return nil
}

func (a *app) names(ctx *cli.Context) error {
	c, err := a.sheetClient(ctx)
	if err != nil {
		return err
	}
	names, err := c.SheetNames(ctx.Context, ctx.String("title"))
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Printf("%q\n", n)
	}
	return nil
}

func (a *app) create(ctx *cli.Context) error {
	c, err := a.sheetClient(ctx)
	if err != nil {
		return err
	}
	created, err := sheet.CreateSheet[weightlog.Entry](ctx.Context, c, sheet.WithSuffix(ctx.String("suffix")))
	if err != nil {
		return err
	}

	a.log.Info().Bool("created", created).Msg("create sheet")
	return nil
}

func (a *app) sync(ctx *cli.Context) error {
	date, err := parseDate(ctx.String("date"))
	if err != nil {
		return err
	}

	fc := fitbit.NewClient(a.cfg.ClientID, a.cfg.ClientSecret, a.cfg.TokenFile)
	fc.Log = logging.WithComponent("fitbit")
	weights, err := fc.Weights(ctx.Context, date)
	if err != nil {
		return err
	}
	incoming := weightlog.FromFitbit(weights)

	if ctx.Bool("dry-run") {
		for _, e := range incoming {
			fmt.Print(weightlog.Summary(e))
		}
		return nil
	}

	c, err := a.sheetClient(ctx)
	if err != nil {
		return err
	}
	suffix := sheet.WithSuffix(ctx.String("suffix"))
	existing, err := sheet.GetSheet[weightlog.Entry](ctx.Context, c, suffix)
	if err != nil {
		return err
	}

	missing := weightlog.Missing(existing, incoming)
	if _, err := sheet.InsertValues(ctx.Context, c, missing, suffix); err != nil {
		return err
	}

	a.log.Info().Int("fetched", len(incoming)).Int("added", len(missing)).Msg("sync")
	return nil
}

func (a *app) list(ctx *cli.Context) error {
	c, err := a.sheetClient(ctx)
	if err != nil {
		return err
	}
	entries, err := sheet.GetSheet[weightlog.Entry](ctx.Context, c,
		sheet.WithSuffix(ctx.String("suffix")), sheet.SkipRows(ctx.Int("skip-rows")))
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%s %s %5.1fkg BMI %5.2f fat %5.2f%% %s\n", e.Date, e.Time, e.Weight, e.BMI, e.Fat, e.Source)
	}
	return nil
}

func (a *app) tidy(ctx *cli.Context) error {
	c, err := a.sheetClient(ctx)
	if err != nil {
		return err
	}
	suffix := sheet.WithSuffix(ctx.String("suffix"))
	entries, err := sheet.GetSheet[weightlog.Entry](ctx.Context, c, suffix)
	if err != nil {
		return err
	}

	tidy := weightlog.Tidy(entries)
	if ctx.Bool("dry-run") {
		a.log.Info().Int("rows", len(entries)).Int("kept", len(tidy)).Msg("tidy dry run")
		return nil
	}

	written, err := sheet.InsertValues(ctx.Context, c, tidy, suffix, sheet.SkipRows(1))
	if err != nil {
		return err
	}

	a.log.Info().Int("rows", len(entries)).Int("kept", len(tidy)).Bool("written", written).Msg("tidy")
	return nil
}

func (a *app) post(ctx *cli.Context) error {
	date, err := parseDate(ctx.String("date"))
	if err != nil {
		return err
	}

	c, err := a.sheetClient(ctx)
	if err != nil {
		return err
	}
	entries, err := sheet.GetSheet[weightlog.Entry](ctx.Context, c, sheet.WithSuffix(ctx.String("suffix")))
	if err != nil {
		return err
	}

	e, ok := weightlog.Find(entries, date)
	if !ok {
		return errors.Errorf("no weight entry for %s", date.Format("2006-01-02"))
	}
	text := weightlog.Summary(e)

	if ctx.Bool("dry-run") {
		fmt.Print(text)
		return nil
	}

	bc := bluesky.NewClient(a.cfg.BskyHost, a.cfg.BskyHandle, a.cfg.BskyPassword)
	bc.Log = logging.WithComponent("bluesky")
	_, err = bc.Post(ctx.Context, text)
	return err
}

func (a *app) cell(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return errors.New("usage: cell <range> <value>")
	}

	c, err := a.sheetClient(ctx)
	if err != nil {
		return err
	}
	return c.WriteCell(ctx.Context, ctx.Args().Get(0), ctx.Args().Get(1))
}
