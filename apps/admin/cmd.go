package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/report"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db           *sql.DB
	engine       string
	validate     *validator.Validate
	apiURL       string
	newReportSvc func(ctx context.Context) (*report.Service, error)
	out          io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                        - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  import -type student|faculty [-tab TAB]       - import profiles from the spreadsheet")
	fmt.Fprintln(cli.out, "  export -type student|faculty [-tab TAB]       - export the full report to the spreadsheet")
	fmt.Fprintln(cli.out, "  locations -clear [-api URL]                   - purge the location cache of the running API")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	importCmd := cli.newFlagSet("import")
	importType := importCmd.String("type", "", "Profiles to import: student or faculty.")
	importTab := importCmd.String("tab", "", "Tab to import. Resolved from the configuration when omitted.")

	exportCmd := cli.newFlagSet("export")
	exportType := exportCmd.String("type", "", "Profiles to export: student or faculty.")
	exportTab := exportCmd.String("tab", "", "Tab to write. The configured tab when omitted.")

	locationsCmd := cli.newFlagSet("locations")
	locationsClear := locationsCmd.Bool("clear", false, "Purge the location cache.")
	locationsAPI := locationsCmd.String("api", "", "Base URL of the API server. The configured one when omitted.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "import":
		if err := parse(importCmd, args[2:]); err != nil {
			return err
		}
		if *importType == "" {
			importCmd.Usage()
			return errHelp
		}
		req := report.ImportRequest{Type: *importType}
		importCmd.Visit(func(f *flag.Flag) {
			if f.Name == "tab" {
				req.Tab = importTab
			}
		})
		return cli.importTab(req)
	case "export":
		if err := parse(exportCmd, args[2:]); err != nil {
			return err
		}
		if *exportType == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(report.GenerateRequest{Type: *exportType, Format: report.FormatSheets, Tab: *exportTab})
	case "locations":
		if err := parse(locationsCmd, args[2:]); err != nil {
			return err
		}
		if !*locationsClear {
			locationsCmd.Usage()
			return errHelp
		}
		apiURL := cli.apiURL
		if *locationsAPI != "" {
			apiURL = strings.TrimSuffix(*locationsAPI, "/")
		}
		return cli.clearLocations(apiURL)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) importTab(req report.ImportRequest) error {
	if err := req.Validate(cli.validate); err != nil {
		return err
	}
	ctx := context.Background()
	svc, err := cli.newReportSvc(ctx)
	if err != nil {
		return err
	}

	res, err := svc.Import(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s import from %q (run %s): %d imported, %d updated.\n", res.Entity, res.Tab, res.RunID, res.Imported, res.Updated)
	if len(res.Duplicates) > 0 {
		fmt.Fprintf(cli.out, "Duplicate emails: %s\n", strings.Join(res.Duplicates, ", "))
	}
	for _, e := range res.Errors {
		fmt.Fprintln(cli.out, e)
	}
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Fprintln(cli.out, res.Message)
	return nil
}

func (cli *commandLine) clearLocations(apiURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := newAPIClient(apiURL, 30*time.Second).clearLocationCache(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Cleared %d cached location lookups on %s.\n", n, apiURL)
	return nil
}

func (cli *commandLine) export(req report.GenerateRequest) error {
	if err := req.Validate(cli.validate); err != nil {
		return err
	}
	ctx := context.Background()
	svc, err := cli.newReportSvc(ctx)
	if err != nil {
		return err
	}

	res, err := svc.Export(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Exported %d rows to %q: %s\n", res.Rows, res.Tab, res.SpreadsheetURL)
	return nil
}
