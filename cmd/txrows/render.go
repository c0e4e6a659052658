package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"

	"github.com/kislikjeka/txfeed/internal/module/txlist"
	"github.com/kislikjeka/txfeed/internal/platform/address"
	"github.com/kislikjeka/txfeed/internal/platform/currency"
	"github.com/kislikjeka/txfeed/internal/platform/i18n"
	"github.com/kislikjeka/txfeed/internal/platform/txrow"
	"github.com/kislikjeka/txfeed/pkg/money"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render transactions from a JSON file as rows",
		ArgsUsage: "[FILE]",
		Description: `Reads a JSON array of wallet transactions (from FILE, --file or stdin)
and prints the row each one binds to.

Examples:
  txrows render txs.json
  txrows render --crypto --locale de --tz Europe/Berlin txs.json
  txrows render --filter '.received and .confirmations < 5' --json txs.json
  txrows render --base-units --crypto raw.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "JSON file with transactions (- for stdin)",
			},
			&cli.BoolFlag{
				Name:  "crypto",
				Usage: "Show amounts in crypto instead of fiat",
			},
			&cli.StringFlag{
				Name:    "fiat",
				Value:   "USD",
				Usage:   "Fiat currency code for fiat amounts",
				EnvVars: []string{"DEFAULT_FIAT_CODE"},
			},
			&cli.StringFlag{
				Name:    "locale",
				Aliases: []string{"l"},
				Value:   "en",
				Usage:   "Display language (en, es, de, fr)",
				EnvVars: []string{"DEFAULT_LOCALE"},
			},
			&cli.StringFlag{
				Name:    "tz",
				Value:   "UTC",
				Usage:   "Time zone for dates",
				EnvVars: []string{"TIME_ZONE"},
			},
			&cli.IntFlag{
				Name:  "truncate",
				Usage: "Shorten addresses to N leading and trailing characters (0 keeps them whole)",
			},
			&cli.BoolFlag{
				Name:  "base-units",
				Usage: "Amounts and fees in the file are integer base units (satoshi, wei, ...)",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "jq expression; only transactions it evaluates to true for are rendered",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			path := c.String("file")
			if path == "" {
				path = c.Args().First()
			}

			in, closeIn, err := openInput(path)
			if err != nil {
				return err
			}
			defer closeIn()

			txs, err := loadTransactions(in)
			if err != nil {
				return err
			}

			if c.Bool("base-units") {
				if txs, err = fromBaseUnits(txs); err != nil {
					return err
				}
			}

			if expr := c.String("filter"); expr != "" {
				code, err := compileFilter(expr)
				if err != nil {
					return err
				}
				if txs, err = filterTransactions(code, txs); err != nil {
					return err
				}
			}

			opts := renderOptions{
				Locale:       c.String("locale"),
				TimeZone:     c.String("tz"),
				FiatCode:     c.String("fiat"),
				PreferCrypto: c.Bool("crypto"),
				Truncate:     c.Int("truncate"),
			}
			rows, err := renderRows(c.Context, opts, txs)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return writeTable(c.App.Writer, rows)
		},
	}
}

// renderOptions are the display settings a render runs with
type renderOptions struct {
	Locale       string
	TimeZone     string
	FiatCode     string
	PreferCrypto bool
	Truncate     int
	// Now defaults to time.Now
	Now func() time.Time
}

// staticPreferences serves fixed display preferences to the adapter
type staticPreferences struct {
	fiatCode     string
	preferCrypto bool
}

func (p staticPreferences) DisplayPreferences(context.Context) (bool, string, error) {
	return p.preferCrypto, p.fiatCode, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func loadTransactions(r io.Reader) ([]txrow.WalletTransaction, error) {
	var txs []txrow.WalletTransaction
	if err := json.NewDecoder(r).Decode(&txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txs, nil
}

// fromBaseUnits scales integer amounts and fees by the decimals of each asset
func fromBaseUnits(txs []txrow.WalletTransaction) ([]txrow.WalletTransaction, error) {
	out := make([]txrow.WalletTransaction, len(txs))
	for i, tx := range txs {
		decimals := money.AssetDecimals(tx.CurrencyCode)

		amount, err := money.ParseBaseUnits(tx.Amount.String(), decimals)
		if err != nil {
			return nil, fmt.Errorf("transaction %d amount: %w", i, err)
		}
		fee, err := money.ParseBaseUnits(tx.Fee.String(), decimals)
		if err != nil {
			return nil, fmt.Errorf("transaction %d fee: %w", i, err)
		}

		tx.Amount = amount
		tx.Fee = fee
		out[i] = tx
	}
	return out, nil
}

func compileFilter(expr string) (*gojq.Code, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", expr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", expr, err)
	}
	return code, nil
}

// filterTransactions keeps the transactions whose JSON form the filter maps to true
func filterTransactions(code *gojq.Code, txs []txrow.WalletTransaction) ([]txrow.WalletTransaction, error) {
	kept := make([]txrow.WalletTransaction, 0, len(txs))
	for i, tx := range txs {
		raw, err := json.Marshal(tx)
		if err != nil {
			return nil, fmt.Errorf("failed to encode transaction %d: %w", i, err)
		}
		var input any
		if err := json.Unmarshal(raw, &input); err != nil {
			return nil, fmt.Errorf("failed to decode transaction %d: %w", i, err)
		}

		iter := code.Run(input)
		v, ok := iter.Next()
		if !ok {
			continue
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter failed on transaction %d: %w", i, err)
		}
		if match, _ := v.(bool); match {
			kept = append(kept, tx)
		}
	}
	return kept, nil
}

func newPresenter(opts renderOptions) (*txrow.Presenter, error) {
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", opts.Locale, err)
	}
	tag = i18n.Match(tag)

	loc, err := time.LoadLocation(opts.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", opts.TimeZone, err)
	}

	var addrOpts []address.Option
	if opts.Truncate > 0 {
		addrOpts = append(addrOpts, address.WithTruncation(opts.Truncate))
	}

	return txrow.NewPresenter(txrow.Deps{
		Currency:  currency.NewFormatter(tag),
		Addresses: address.NewDecorator(addrOpts...),
		Dates:     i18n.NewDateFormatter(tag, loc, opts.Now),
		Templates: i18n.NewCatalog(tag),
		Now:       opts.Now,
	}), nil
}

// renderRows binds every transaction through a list adapter
func renderRows(ctx context.Context, opts renderOptions, txs []txrow.WalletTransaction) ([]txlist.BoundRow, error) {
	fiatCode := strings.ToUpper(opts.FiatCode)
	if !opts.PreferCrypto && !currency.IsFiatCode(fiatCode) {
		return nil, fmt.Errorf("invalid fiat code %q", opts.FiatCode)
	}

	presenter, err := newPresenter(opts)
	if err != nil {
		return nil, err
	}

	adapter := txlist.NewAdapter(txlist.Config{
		Presenter:       presenter,
		Preferences:     staticPreferences{fiatCode: fiatCode, preferCrypto: opts.PreferCrypto},
		DefaultFiatCode: fiatCode,
		Now:             opts.Now,
	})
	adapter.SetItems(txs)

	if ctx == nil {
		ctx = context.Background()
	}
	return adapter.BindRange(ctx, 0, 0)
}

func writeTable(out io.Writer, rows []txlist.BoundRow) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTATE\tAMOUNT\tDETAIL\tDATE\tPROGRESS")
	for _, row := range rows {
		date := "-"
		if row.Visual.ShowDate {
			date = row.Visual.DateText
		}
		progress := "-"
		if row.Visual.ShowProgress {
			progress = strconv.Itoa(row.Visual.ProgressPercent) + "%"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			row.Position,
			row.State,
			row.Visual.AmountText,
			row.Visual.DetailText,
			date,
			progress,
		)
	}
	return w.Flush()
}
