package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmoura/simulado/internal/access"
	"github.com/dmoura/simulado/internal/handler"
	appI18n "github.com/dmoura/simulado/internal/i18n"
	"github.com/dmoura/simulado/internal/quizgen"
	"github.com/dmoura/simulado/internal/session"
	"github.com/dmoura/simulado/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "simulado",
		Short: "LLM-powered quiz simulator",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `simulado --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP quiz server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "simulado.db", "SQLite database path")
	f.String("auth-url", "", "Allow-list API base URL (or set SIMULADO_AUTH_URL)")
	f.String("auth-key", "", "Allow-list API key (or set SIMULADO_AUTH_KEY)")
	f.String("provider", "gemini", "Quiz generation backend (gemini, openai)")
	f.String("gemini-key", "", "Gemini API key (or set SIMULADO_GEMINI_KEY)")
	f.String("gemini-model", "", "Gemini model name (empty = provider default)")
	f.String("openai-url", "", "OpenAI-compatible API base URL (empty = api.openai.com)")
	f.String("openai-key", "", "OpenAI API key (or set SIMULADO_OPENAI_KEY)")
	f.String("openai-model", "", "OpenAI model name (empty = provider default)")
	f.IntP("questions", "n", 5, "Number of questions per quiz")
	f.StringP("lang", "l", "pt", "UI language (pt, en)")
	f.Duration("gen-timeout", 90*time.Second, "Quiz generation timeout")
	f.Float64("temperature", 0.7, "Sampling temperature for generation")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored quiz histories as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "simulado.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
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

	v.SetEnvPrefix("SIMULADO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("simulado")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/simulado")
	v.AddConfigPath("/etc/simulado")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// buildProvider creates the configured generation backend. A missing API key
// is not fatal: the server starts and every generation attempt reports the
// missing credential instead.
func buildProvider(ctx context.Context, v *viper.Viper) quizgen.Provider {
	backend := strings.ToLower(strings.TrimSpace(v.GetString("provider")))
	var (
		provider quizgen.Provider
		err      error
	)
	switch backend {
	case "openai":
		provider, err = quizgen.NewOpenAI(
			v.GetString("openai-url"),
			v.GetString("openai-key"),
			v.GetString("openai-model"),
		)
	default:
		if backend != "gemini" {
			slog.Warn("unknown provider, using gemini", "provider", backend)
		}
		provider, err = quizgen.NewGemini(ctx, v.GetString("gemini-key"), v.GetString("gemini-model"))
	}
	if err != nil {
		if errors.Is(err, quizgen.ErrMissingCredential) {
			slog.Warn("generation API key not configured, quiz generation disabled", "provider", backend)
			return nil
		}
		slog.Error("failed to create generation backend", "provider", backend, "error", err)
		return nil
	}
	slog.Info("generation backend ready", "provider", backend, "model", provider.ModelID())
	return provider
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	gate, err := access.New(v.GetString("auth-url"), v.GetString("auth-key"), nil)
	if err != nil {
		return fmt.Errorf("create access client: %w", err)
	}

	provider := buildProvider(cmd.Context(), v)
	gen := quizgen.New(provider, quizgen.Config{
		QuestionCount: v.GetInt("questions"),
		Locale:        lang,
		Timeout:       v.GetDuration("gen-timeout"),
		Temperature:   v.GetFloat64("temperature"),
	})

	sessions := session.NewManager(gate, gen, db)

	h := handler.New(sessions, handler.Config{
		SecureCookies: v.GetBool("secure-cookies"),
	})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"provider", v.GetString("provider"),
		"lang", lang,
		"questions", v.GetInt("questions"),
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	histories, err := db.ExportHistories()
	if err != nil {
		return fmt.Errorf("load histories: %w", err)
	}

	data, err := json.MarshalIndent(histories, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

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

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
