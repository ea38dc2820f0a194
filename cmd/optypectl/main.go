package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/danmuck/simctl/internal/logging"
	"github.com/danmuck/simctl/internal/observability"
	"github.com/danmuck/simctl/internal/protocol/manifest"
	"github.com/danmuck/simctl/internal/protocol/optype"
	"github.com/danmuck/simctl/internal/server"
	"github.com/kataras/tablewriter"
	"github.com/lensesio/tableprinter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tableRow struct {
	ID     int32  `header:"id"`
	Name   string `header:"name"`
	Marker string `header:"marker"`
}

func main() {
	logger := logging.ConfigureRuntime("optypectl")
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Error().Err(err).Msg("optypectl failed")
		os.Exit(1)
	}
}

// run executes one optypectl invocation. Every failure, including a
// rejected catalog, is returned so main can exit non-zero.
func run(args []string, stdout io.Writer, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("optypectl", flag.ContinueOnError)
	list := fs.Bool("list", false, "print the operation wire table")
	rawID := fs.String("id", "", "resolve a wire id")
	marker := fs.String("marker", "", "resolve a payload marker")
	write := fs.String("write", "", "write the wire table manifest to this path")
	force := fs.Bool("force", false, "overwrite an existing manifest")
	check := fs.String("check", "", "check a peer manifest against the local wire table")
	serve := fs.String("serve", "", "serve the read-only inspection API on this address")
	configPath := fs.String("config", "", "optional optypectl config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultServiceConfig()
	if *configPath != "" {
		loaded, err := loadServiceConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		log.Info().Str("path", *configPath).Msg("loaded optypectl config")
	}
	if *serve != "" {
		cfg.ServeAddr = *serve
	}

	// A bad catalog is a programming error; nothing may run against it.
	reg, err := optype.Default(optype.WithObserver(observability.NewLookupObserver()))
	if err != nil {
		return fmt.Errorf("operation catalog rejected: %w", err)
	}
	observability.RecordRegistry(reg)

	if *list {
		printTable(stdout, reg.Variants())
	}

	if *rawID != "" {
		id, err := parseWireID(*rawID)
		if err != nil {
			return err
		}
		v, err := reg.ResolveByID(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d\t%s\t%s\n", v.ID, v.Name, v.Marker)
	}

	if *marker != "" {
		v, err := reg.ResolveByType(optype.Marker(*marker))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d\t%s\t%s\n", v.ID, v.Name, v.Marker)
	}

	if *write != "" {
		if err := manifest.Write(*write, manifest.FromRegistry(reg), *force); err != nil {
			return err
		}
		log.Info().Str("path", *write).Int("operations", reg.Len()).Msg("wrote manifest")
	}

	if *check != "" {
		if err := checkManifest(*check, reg); err != nil {
			return fmt.Errorf("manifest check failed (%s): %w", *check, err)
		}
		log.Info().Str("path", *check).Msg("manifest matches local wire table")
	}

	// Peer skew is a protocol condition, not a startup failure.
	for _, path := range cfg.PeerManifests {
		if err := checkManifest(path, reg); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("peer manifest differs")
			continue
		}
		log.Info().Str("path", path).Msg("peer manifest matches")
	}

	if cfg.ServeAddr != "" {
		s := server.New(cfg.Name, cfg.ServeAddr, reg, logger)
		log.Info().Str("addr", s.Addr).Msg("optypectl serving")
		return s.Serve()
	}
	return nil
}

// parseWireID rejects anything that does not fit the wire id width rather
// than letting it wrap onto a registered id.
func parseWireID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid -id %q: %w", raw, err)
	}
	return int32(id), nil
}

func printTable(w io.Writer, variants []optype.Variant) int {
	rows := make([]tableRow, 0, len(variants))
	for _, v := range variants {
		rows = append(rows, tableRow{ID: v.ID, Name: v.Name, Marker: string(v.Marker)})
	}
	printer := tableprinter.New(w)
	printer.BorderTop, printer.BorderBottom, printer.BorderLeft, printer.BorderRight = true, true, true, true
	printer.CenterSeparator = "│"
	printer.ColumnSeparator = "│"
	printer.RowSeparator = "─"
	printer.HeaderBgColor = tablewriter.BgBlackColor
	printer.HeaderFgColor = tablewriter.FgGreenColor
	return printer.Print(rows)
}

func checkManifest(path string, reg *optype.Registry) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	// A peer manifest must itself be a valid catalog before it is compared.
	if _, err := m.Registry(); err != nil {
		return fmt.Errorf("peer manifest invalid: %w", err)
	}
	return manifest.Check(m, reg)
}
