// Command errtype builds an error instance from a catalog and prints it.
//
//	errtype --catalog errors.yaml --type ValidationError -m "missing field" \
//	    -f field=email --cause TypeError:"bad type" -o text
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	errtype "github.com/xgx-io/xgx-errtype"
	"github.com/xgx-io/xgx-errtype/catalog"
	"github.com/xgx-io/xgx-errtype/errlog"
	"github.com/xgx-io/xgx-errtype/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		_, _ = fmt.Fprint(stdout, config.Usage())
		return nil
	}

	level := config.DefaultLogLevel
	if cfg != nil {
		level = cfg.LogLevel
	}
	log, lerr := errlog.NewConsole(stderr, level)
	if lerr != nil {
		log = zerolog.Nop()
	}
	if err != nil {
		errlog.Error("invalid configuration", err, &log)
		_, _ = fmt.Fprint(stderr, "\n"+config.Usage())
		return err
	}

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		errlog.Error("failed to load catalog", err, &log)
		return err
	}
	log.Debug().Str("catalog", cfg.Catalog).Strs("types", cat.Names()).Msg("catalog loaded")

	if cfg.List {
		for _, name := range cat.Names() {
			_, _ = fmt.Fprintln(stdout, name)
		}
		return nil
	}

	inst, err := build(cat, cfg)
	if err != nil {
		errlog.Error("failed to build instance", err, &log)
		return err
	}
	errlog.Debug("instance built", inst, &log)

	return render(stdout, cfg.Output, inst)
}

// build assembles the requested instance. Configuration has already been
// validated, so parse errors cannot occur here.
func build(cat *catalog.Catalog, cfg *config.Config) (*errtype.Error, error) {
	attrs, _ := cfg.FieldAttrs()
	causes, _ := cfg.ParseCauses()

	var args []any
	if cfg.Message != "" {
		args = append(args, cfg.Message)
	}
	if len(attrs) > 0 {
		args = append(args, attrs)
	}
	for _, c := range causes {
		var cargs []any
		if c.Message != "" {
			cargs = append(cargs, c.Message)
		}
		cause, err := cat.New(c.Type, cargs...)
		if err != nil {
			return nil, err
		}
		args = append(args, cause)
	}
	return cat.New(cfg.Type, args...)
}

func render(w io.Writer, format string, inst *errtype.Error) error {
	if format == "text" {
		_, err := fmt.Fprintf(w, "%+v\n", inst)
		return err
	}
	out, err := json.MarshalIndent(inst.Record(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
