// cmd/relgrid/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"relcore/internal/alloc"
	"relcore/internal/grid"
	"relcore/internal/ingest"
	"relcore/internal/monitor"
	"relcore/internal/types"
)

const version = "0.1.0"

// Command aliases mapping, same single-letter-shortcut idiom as the rest
// of the operator tooling in this family of CLIs.
var commandAliases = map[string]string{
	"i": "ingest",
	"b": "build-grid",
	"q": "query",
	"s": "serve",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		if len(args) > 1 {
			showCommandHelp(args[1])
		} else {
			showUsage()
		}
	case "--version", "-v", "version":
		showVersion()
	case "ingest":
		runIngest(args[1:])
	case "build-grid":
		runBuildGrid(args[1:])
	case "query":
		runQuery(args[1:])
	case "serve":
		runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("relgrid - bitemporal columnar relation and grid index toolkit")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  relgrid ingest -type <t> -dsn <dsn> -query <sql>    Run a SQL query into a relation  (alias: i)")
	fmt.Println("  relgrid build-grid -k <n> -points <file>            Build a grid index over points   (alias: b)")
	fmt.Println("  relgrid query -k <n> -min <p> -max <p>              Range-search a grid              (alias: q)")
	fmt.Println("  relgrid serve -addr <addr>                          Serve build/scan progress        (alias: s)")
	fmt.Println()
	fmt.Println("Help:")
	fmt.Println("  relgrid help <command>      Show detailed help for a command")
	fmt.Println("  relgrid --version           Show version information")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  relgrid ingest -type sqlite -dsn events.db -query 'select * from events'")
	fmt.Println("  relgrid b -k 3 -points coords.csv -cell-size 32")
	fmt.Println("  relgrid q -k 3 -points coords.csv -min 0,0,0 -max 10,10,10")
}

func showCommandHelp(command string) {
	switch command {
	case "ingest", "i":
		fmt.Println("relgrid ingest - run a SQL query through an ingest connector")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -type   database type: sqlite, postgres, mysql (default sqlite)")
		fmt.Println("  -dsn    data source name")
		fmt.Println("  -query  SQL query text")
	case "build-grid", "b":
		fmt.Println("relgrid build-grid - build a grid index over k-dimensional points")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -k          point arity")
		fmt.Println("  -points     file of comma-separated int64 points, one per line ('-' for stdin)")
		fmt.Println("  -cell-size  target points per cell, must be a power of two (default 16)")
		fmt.Println("  -max-bins   max histogram bins per axis (default 64)")
	case "query", "q":
		fmt.Println("relgrid query - build a grid and run one range search against it")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -k           point arity")
		fmt.Println("  -points      file of comma-separated int64 points")
		fmt.Println("  -min, -max   comma-separated k-length range bounds, inclusive")
		fmt.Println("  -timestamps  render all but the last axis as TIMESTAMP_MILLI values")
	case "serve", "s":
		fmt.Println("relgrid serve - host a websocket progress feed")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -addr   listen address (default :8089)")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		showUsage()
	}
}

func showVersion() {
	fmt.Printf("relgrid v%s\n", version)
}

func colorize(code, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func runIngest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	dbType := fs.String("type", "sqlite", "database type: sqlite, postgres, mysql")
	dsn := fs.String("dsn", "", "data source name")
	query := fs.String("query", "", "SQL query to run")
	fs.Parse(args)

	if *dsn == "" || *query == "" {
		fatalf("ingest requires -dsn and -query")
	}

	mem := alloc.New()
	mgr := ingest.NewManager()
	if err := mgr.Connect("default", *dbType, *dsn); err != nil {
		fatalf("connect: %v", err)
	}
	defer mgr.CloseAll()

	rel, err := mgr.Query(mem, "default", *query)
	if err != nil {
		fatalf("query: %v", err)
	}
	defer rel.Close()

	fmt.Printf("%s %s rows across %d columns: %s\n",
		colorize("32", "ingested"),
		humanize.Comma(int64(rel.RowCount())),
		len(rel.Names()),
		strings.Join(rel.Names(), ", "))
}

func runBuildGrid(args []string) {
	fs := flag.NewFlagSet("build-grid", flag.ExitOnError)
	k := fs.Int("k", 2, "point arity")
	cellSize := fs.Int("cell-size", 16, "target points per cell (power of two)")
	maxBins := fs.Int("max-bins", 64, "max histogram bins per axis")
	path := fs.String("points", "-", "file of comma-separated int64 points, one per line")
	fs.Parse(args)

	points, err := readPoints(*path, *k)
	if err != nil {
		fatalf("reading points: %v", err)
	}

	mem := alloc.New()
	g, err := grid.Build(mem, *k, points, grid.Options{MaxHistogramBins: *maxBins, CellSize: *cellSize})
	if err != nil {
		fatalf("build: %v", err)
	}
	defer g.Close()

	fmt.Printf("%s %s points into %s cells (cell_shift=%d)\n",
		colorize("32", "built grid over"),
		humanize.Comma(int64(g.Total())),
		humanize.Comma(int64(g.NumberOfCells())),
		g.CellShift())
}

func runQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	k := fs.Int("k", 2, "point arity")
	cellSize := fs.Int("cell-size", 16, "target points per cell (power of two)")
	maxBins := fs.Int("max-bins", 64, "max histogram bins per axis")
	path := fs.String("points", "-", "file of comma-separated int64 points")
	minStr := fs.String("min", "", "comma-separated k-length minimum range")
	maxStr := fs.String("max", "", "comma-separated k-length maximum range")
	useTimestamps := fs.Bool("timestamps", false, "render all but the last axis as TIMESTAMP_MILLI values")
	fs.Parse(args)

	if *minStr == "" || *maxStr == "" {
		fatalf("query requires -min and -max")
	}

	points, err := readPoints(*path, *k)
	if err != nil {
		fatalf("reading points: %v", err)
	}

	mem := alloc.New()
	g, err := grid.Build(mem, *k, points, grid.Options{MaxHistogramBins: *maxBins, CellSize: *cellSize})
	if err != nil {
		fatalf("build: %v", err)
	}
	defer g.Close()

	minRange, err := parsePoint(*minStr, *k)
	if err != nil {
		fatalf("parsing -min: %v", err)
	}
	maxRange, err := parsePoint(*maxStr, *k)
	if err != nil {
		fatalf("parsing -max: %v", err)
	}

	idxs, err := g.SearchAll(minRange, maxRange)
	if err != nil {
		fatalf("search: %v", err)
	}

	fmt.Printf("%s matches\n", colorize("32", humanize.Comma(int64(len(idxs)))))
	for _, idx := range idxs {
		fmt.Println(formatPoint(g.Point(idx), *useTimestamps))
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8089", "listen address for the progress websocket")
	fs.Parse(args)

	mon := monitor.NewServer()
	httpServer := &http.Server{Addr: *addr, Handler: mon}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("%s observers can connect at ws://%s\n", colorize("36", "serving"), *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			fatalf("serve: %v", err)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mon.Close()
		httpServer.Shutdown(ctx)
	}
}

func readPoints(path string, k int) (grid.SlicePointSource, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var pts grid.SlicePointSource
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		p, err := parsePoint(line, k)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, sc.Err()
}

func parsePoint(s string, k int) ([]int64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != k {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d in %q", k, len(fields), s)
	}
	p := make([]int64, k)
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", f, err)
		}
		p[i] = v
	}
	return p, nil
}

func formatPoint(p []int64, useTimestamps bool) string {
	strs := make([]string, len(p))
	for i, v := range p {
		if useTimestamps && i < len(p)-1 {
			strs[i] = types.FormatTimestampMilli(time.UnixMilli(v))
		} else {
			strs[i] = strconv.FormatInt(v, 10)
		}
	}
	return "(" + strings.Join(strs, ", ") + ")"
}
