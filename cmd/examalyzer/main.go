package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/examalyzer/examalyzer/internal/handler"
	"github.com/examalyzer/examalyzer/internal/history"
	"github.com/examalyzer/examalyzer/internal/model"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examalyzer",
		Short: "Self-administered mock tests from PDF papers and CSV answer keys",
	}

	serve := serveCmd()
	root.AddCommand(serve, historyCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `examalyzer --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP exam server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "examalyzer.db", "SQLite history database path")
	f.StringP("pdf", "p", "", "Default question paper (PDF)")
	f.StringP("key", "k", "", "Default answer key (CSV: question number, option letter)")
	f.StringP("shift", "s", "Morning Shift - Set A", "Shift label recorded with saved attempts")
	f.Float64("positive-marks", 4, "Marks awarded per correct answer")
	f.Float64("negative-marks", 1, "Marks deducted per wrong answer")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or export saved attempt history",
		RunE:  runHistory,
	}
	f := cmd.Flags()
	f.String("db", "examalyzer.db", "SQLite history database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.StringP("format", "f", "table", "Output format (table, csv, json)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examalyzer")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examalyzer")
	v.AddConfigPath("/etc/examalyzer")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	store, err := history.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	cfg := model.Config{
		Shift:   v.GetString("shift"),
		PDFPath: v.GetString("pdf"),
		KeyPath: v.GetString("key"),
		Marking: model.MarkingScheme{
			Positive: v.GetFloat64("positive-marks"),
			Negative: v.GetFloat64("negative-marks"),
		},
	}

	h := handler.New(store, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"shift", cfg.Shift,
		"pdf", cfg.PDFPath,
		"key", cfg.KeyPath,
		"positive_marks", cfg.Marking.Positive,
		"negative_marks", cfg.Marking.Negative,
	)
	return http.ListenAndServe(addr, r)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	store, err := history.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch strings.ToLower(v.GetString("format")) {
	case "csv":
		return store.ExportCSV(w)
	case "json":
		records, err := store.ListAll()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		_, _ = fmt.Fprintln(w)
		return nil
	default:
		return printHistoryTable(w, store)
	}
}

func printHistoryTable(w io.Writer, store *history.Store) error {
	records, err := store.ListAll()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHIFT\tSCORE\tTOTAL\tCORRECT\tWRONG\tDATE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%g\t%d\t%d\t%d\t%s\n",
			r.Shift, r.Score, r.TotalQuestions, r.Correct, r.Wrong, r.Date)
	}
	return tw.Flush()
}
