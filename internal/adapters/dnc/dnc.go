// Package dnc loads suppression lists from a CSV drop directory
package dnc

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dncsweep/internal/core/match"
	"dncsweep/internal/platform/config"
	perr "dncsweep/internal/platform/errors"
	"dncsweep/internal/platform/logger"
)

// Options configures the Loader
type Options struct {
	// DropDir is where clients' suppression CSVs land
	DropDir string
}

// FromConf reads the SERVICE_DNC_ namespace into Options
func FromConf(cfg config.Conf) Options {
	dc := cfg.Prefix("SERVICE_DNC_")
	return Options{
		DropDir: dc.MustString("DROP_DIR"),
	}
}

// Loader resolves the newest suppression CSV per client.
// Files follow the `<client>_*.csv` drop convention
type Loader struct {
	opts Options
	log  logger.Logger
}

// NewLoader constructs a Loader
func NewLoader(o Options) *Loader {
	return &Loader{opts: o, log: *logger.Named("dnc")}
}

// Load implements the screen suppression port. Rows missing a company name
// are dropped and reported as warnings, never as errors; a CSV with no data
// rows is a valid empty list
func (l *Loader) Load(ctx context.Context, client string) ([]match.Entry, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	path, err := l.newestFor(client)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "dnc: open %s", path)
	}
	defer f.Close()

	entries, warnings, err := parse(f)
	if err != nil {
		return nil, nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "dnc: parse %s", path)
	}

	l.log.Info().
		Str("client", client).
		Str("file", filepath.Base(path)).
		Int("entries", len(entries)).
		Int("warnings", len(warnings)).
		Msg("suppression list loaded")
	return entries, warnings, nil
}

// newestFor picks the client's most recently modified CSV in the drop dir
func (l *Loader) newestFor(client string) (string, error) {
	pattern := filepath.Join(l.opts.DropDir, client+"_*.csv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return "", perr.InvalidArgf("dnc: bad drop pattern %q: %v", pattern, err)
	}
	if len(files) == 0 {
		return "", perr.NotFoundf("dnc: no suppression file for client %q in %s", client, l.opts.DropDir)
	}

	newest := ""
	var newestMod int64
	for _, p := range files {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		if m := fi.ModTime().UnixNano(); newest == "" || m > newestMod {
			newest, newestMod = p, m
		}
	}
	if newest == "" {
		return "", perr.NotFoundf("dnc: no readable suppression file for client %q", client)
	}
	return newest, nil
}

// parse reads the two-column CSV: company_name required, domain optional.
// Header names are matched case-insensitively
func parse(r io.Reader) ([]match.Entry, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	nameIdx, domainIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "company_name":
			nameIdx = i
		case "domain":
			domainIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, nil, fmt.Errorf("missing required column company_name")
	}

	var (
		entries  []match.Entry
		warnings []string
	)
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		name := ""
		if nameIdx < len(rec) {
			name = strings.TrimSpace(rec[nameIdx])
		}
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("row %d: missing company_name", row))
			continue
		}
		domain := ""
		if domainIdx >= 0 && domainIdx < len(rec) {
			domain = strings.TrimSpace(rec[domainIdx])
		}
		entries = append(entries, match.NewEntry(name, domain))
	}
	return entries, warnings, nil
}
