package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/bank"
	"github.com/queckhq/queck/internal/config"
	"github.com/queckhq/queck/internal/export"
	"github.com/queckhq/queck/internal/extract"
	appI18n "github.com/queckhq/queck/internal/i18n"
	"github.com/queckhq/queck/internal/live"
	"github.com/queckhq/queck/internal/queck"
	"github.com/queckhq/queck/internal/schema"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "queck",
		Short:        "Author, check and publish plain-text quizzes",
		SilenceUsage: true,
	}

	serve := serveCmd()
	root.AddCommand(checkCmd(), fmtCmd(), exportCmd(), extractCmd(), genCmd(), serve,
		bankCmd(), schemaCmd(), overviewCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `queck --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate quiz files and report problems",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	addLogFlags(cmd)
	return cmd
}

func fmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt FILE...",
		Short: "Reformat quiz files to canonical style",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFmt,
	}
	f := cmd.Flags()
	f.BoolP("write", "w", false, "Rewrite files in place instead of printing to stdout")
	addLogFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Export quizzes to html, md, json, queck or qknb",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.StringP("format", "f", "html", "Output format (queck, qknb, html, md, json)")
	f.String("style", "fast", "HTML style (fast, latex, inline)")
	f.Bool("overview", false, "Prepend a per-type overview table")
	f.Bool("parsed", false, "JSON format: include parsed question fields")
	f.String("render-as", "", "JSON format: rewrite markdown fields (html, md)")
	f.StringP("out", "o", "export", "Output directory (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Extract quiz questions from study material with an LLM",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExtract,
	}
	addAPIFlags(cmd)
	f := cmd.Flags()
	f.String("prompt-extra", "", "Extra instructions appended to the prompt")
	f.StringP("out", "o", "", "Output file (default input name with .qk, - for stdout)")
	addLogFlags(cmd)
	return cmd
}

func genCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen PROMPT...",
		Short: "Generate a quiz from a free-form request with an LLM",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGen,
	}
	addAPIFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	addLogFlags(cmd)
	return cmd
}

func addAPIFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("api-url", "", "OpenAI-compatible API base URL (empty for api.openai.com)")
	f.String("api-key", "", "API key (or set QUECK_OPENAI_API_KEY)")
	f.String("model", "gpt-4o-mini", "Model name")
	f.Bool("force-single-select", false, "Demote one-correct choice lists to single select")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [DIR]",
		Short: "Serve a live-reloading preview of a quiz directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	addLogFlags(cmd)
	return cmd
}

func bankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Maintain a sqlite index over a quiz collection",
	}
	cmd.AddCommand(bankIndexCmd(), bankListCmd(), bankShowCmd(), bankSearchCmd())
	return cmd
}

func addBankFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", "queck.db", "SQLite index database path")
	addLogFlags(cmd)
}

func bankIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [DIR]",
		Short: "Index or refresh the quiz files under a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBankIndex,
	}
	addBankFlags(cmd)
	return cmd
}

func bankListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every indexed quiz",
		Args:  cobra.NoArgs,
		RunE:  runBankList,
	}
	addBankFlags(cmd)
	return cmd
}

func bankShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show ID|PATH",
		Short: "Show one indexed quiz as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runBankShow,
	}
	f := cmd.Flags()
	f.StringP("out", "o", "-", "Output file path (- for stdout)")
	addBankFlags(cmd)
	return cmd
}

func bankSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Search indexed quizzes by title",
		Args:  cobra.ExactArgs(1),
		RunE:  runBankSearch,
	}
	addBankFlags(cmd)
	return cmd
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [queck|qknb]",
		Short: "Print one of the embedded JSON Schemas",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSchema,
	}
	cmd.AddCommand(schemaValidateCmd())
	addLogFlags(cmd)
	return cmd
}

func schemaValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate files against the embedded schemas",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSchemaValidate,
	}
	addLogFlags(cmd)
	return cmd
}

func overviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview FILE...",
		Short: "Summarize quizzes by answer type",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runOverview,
	}
	f := cmd.Flags()
	f.StringP("lang", "l", "en", "Label language (en, ru)")
	addLogFlags(cmd)
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

	v.SetEnvPrefix("QUECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("queck")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/queck")
	v.AddConfigPath("/etc/queck")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// filesErr turns a per-file failure count into the command's exit error.
func filesErr(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d files failed", failed, total)
}

// outputWriter opens the export output target, mapping "-" to stdout.
func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	failed := 0
	for _, path := range args {
		q, err := queck.LoadFile(path, answer.Context{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok (questions: %d, marks: %s)\n", path, q.QuestionCount(), q.TotalMarks())
	}
	return filesErr(failed, len(args))
}

func runFmt(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	write := v.GetBool("write")

	failed := 0
	for _, path := range args {
		if err := fmtFile(path, write); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
		}
	}
	return filesErr(failed, len(args))
}

func fmtFile(path string, write bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := queck.Format(data, answer.Context{})
	if err != nil {
		return err
	}
	if !write {
		_, err = os.Stdout.Write(out)
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, info.Mode().Perm())
}

func runExport(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}
	style, err := export.ParseStyle(v.GetString("style"))
	if err != nil {
		return err
	}
	renderAs := v.GetString("render-as")
	switch renderAs {
	case "", export.RenderAsHTML, export.RenderAsMD:
	default:
		return fmt.Errorf("unknown render-as %q, want html or md", renderAs)
	}

	opts := export.Options{
		Format:    format,
		Style:     style,
		Overview:  v.GetBool("overview"),
		Parsed:    v.GetBool("parsed"),
		RenderAs:  renderAs,
		Normalize: cfg.NormalizeOptions(),
	}
	exp := export.New(cfg.Labels())
	outDir := v.GetString("out")

	failed := 0
	for _, path := range args {
		if err := exportFile(exp, path, outDir, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
		}
	}
	return filesErr(failed, len(args))
}

func exportFile(exp *export.Exporter, path, outDir string, opts export.Options) error {
	q, err := queck.LoadFile(path, answer.Context{})
	if err != nil {
		return err
	}
	opts.Dir = filepath.Dir(path)
	out, err := exp.Export(q, opts)
	if err != nil {
		return err
	}
	if outDir == "-" {
		_, err = os.Stdout.Write(out)
		return err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	target := filepath.Join(outDir, base+opts.Format.Ext())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", path, target)
	return nil
}

// apiClient builds the LLM client shared by extract and gen. The key
// may come from the flag or either env name.
func apiClient(v *viper.Viper) (*extract.Client, error) {
	_ = v.BindEnv("api-key", "QUECK_OPENAI_API_KEY", "QUECK_API_KEY")
	apiKey := v.GetString("api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("API key required: pass --api-key or set QUECK_OPENAI_API_KEY")
	}
	return extract.New(v.GetString("api-url"), apiKey, v.GetString("model")), nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	client, err := apiClient(v)
	if err != nil {
		return err
	}
	outPath := v.GetString("out")
	if len(args) > 1 && outPath != "" && outPath != "-" {
		return fmt.Errorf("--out with a file name works with a single input")
	}
	opts := extract.Options{
		ForceSingleSelect: v.GetBool("force-single-select"),
		Extra:             v.GetString("prompt-extra"),
	}

	failed := 0
	for _, path := range args {
		if err := extractFile(cmd.Context(), client, path, outPath, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
		}
	}
	return filesErr(failed, len(args))
}

func extractFile(ctx context.Context, client *extract.Client, path, outPath string, opts extract.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	slog.Info("extracting questions", "path", path, "bytes", len(data))
	q, err := client.Extract(ctx, string(data), opts)
	if err != nil {
		return err
	}
	out, err := queck.Dump(q, queck.DumpOptions{})
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + queck.Ext
	}
	w, closeFn, err := outputWriter(outPath)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if outPath != "-" {
		fmt.Printf("%s -> %s (questions: %d)\n", path, outPath, q.QuestionCount())
	}
	return nil
}

func runGen(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	client, err := apiClient(v)
	if err != nil {
		return err
	}
	prompt := strings.Join(args, " ")
	slog.Info("generating quiz", "model", v.GetString("model"))
	q, err := client.Generate(cmd.Context(), prompt, extract.Options{
		ForceSingleSelect: v.GetBool("force-single-select"),
	})
	if err != nil {
		return err
	}
	out, err := queck.Dump(q, queck.DumpOptions{})
	if err != nil {
		return err
	}
	outPath := v.GetString("out")
	w, closeFn, err := outputWriter(outPath)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if outPath != "" && outPath != "-" {
		fmt.Printf("%s (questions: %d)\n", outPath, q.QuestionCount())
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	srv := live.New(dir, live.Options{
		Lang:   lang,
		Labels: cfg.MergeLabels(appI18n.Labels(lang)),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, v.GetString("addr"))
}

func runBankIndex(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	b, err := bank.Open(v.GetString("db"))
	if err != nil {
		return err
	}
	defer b.Close()

	res, err := b.Index(root, answer.Context{})
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d, skipped %d, removed %d, failed %d\n",
		res.Indexed, res.Skipped, res.Removed, res.Failed)
	if res.Failed > 0 {
		return fmt.Errorf("%d files failed to index", res.Failed)
	}
	return nil
}

func runBankList(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	b, err := bank.Open(v.GetString("db"))
	if err != nil {
		return err
	}
	defer b.Close()

	entries, err := b.List()
	if err != nil {
		return err
	}
	printEntries(entries)
	return nil
}

func runBankSearch(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	b, err := bank.Open(v.GetString("db"))
	if err != nil {
		return err
	}
	defer b.Close()

	entries, err := b.Search(args[0])
	if err != nil {
		return err
	}
	printEntries(entries)
	return nil
}

func printEntries(entries []bank.Entry) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tTITLE\tQUESTIONS\tMARKS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Path, e.Title, e.QuestionCount, e.TotalMarks)
	}
	tw.Flush()
}

func runBankShow(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	b, err := bank.Open(v.GetString("db"))
	if err != nil {
		return err
	}
	defer b.Close()

	e, err := b.Find(args[0])
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("no indexed quiz matches %q", args[0])
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	w, closeFn, err := outputWriter(v.GetString("out"))
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		closeFn()
		return err
	}
	fmt.Fprintln(w)
	return closeFn()
}

func runSchema(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	which := schema.Queck
	if len(args) > 0 {
		which = schema.Schema(args[0])
	}
	src, err := schema.Source(which)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(src)
	return err
}

func runSchemaValidate(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	failed := 0
	for _, path := range args {
		if err := schemaValidateFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	return filesErr(failed, len(args))
}

func schemaValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	which := schema.Queck
	if queck.IsNotebookPath(path) {
		which = schema.Notebook
	}
	return schema.Validate(data, which)
}

func runOverview(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	labels := cfg.MergeLabels(appI18n.Labels(lang))

	failed := 0
	for _, path := range args {
		q, err := queck.LoadFile(path, answer.Context{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: %s\n", path, q.Title)
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		printStats(tw, queck.Overview(q, labels), "  ")
		fmt.Fprintf(tw, "  total\t%d\t%s\n", q.QuestionCount(), q.TotalMarks())
		tw.Flush()
	}
	return filesErr(failed, len(args))
}

func printStats(w io.Writer, stats []queck.Stat, indent string) {
	for _, s := range stats {
		fmt.Fprintf(w, "%s%s\t%d\t%s\n", indent, s.Label, s.Count, s.Marks)
		printStats(w, s.Breakdown, indent+"  ")
	}
}
