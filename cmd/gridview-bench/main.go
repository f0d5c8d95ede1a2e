package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/ui/styles"
	"github.com/imgajeed76/gridview/internal/ui/table"
	"github.com/imgajeed76/gridview/internal/util"
)

// ═══════════════════════════════════════════════════════════════════════════
// gridview-bench: engine and layout timings over synthetic row sets
//
// Usage:
//   gridview-bench [<rows>...] [options]
//
// Generates rows, then times filtering, sorting, window scrolling and
// frame layout for both render surfaces.
// ═══════════════════════════════════════════════════════════════════════════

// isTTY is true when stdout is a terminal and accessibility mode is off
var isTTY bool

func init() {
	isTTY = term.IsTerminal(int(os.Stdout.Fd())) && !styles.IsAccessible()
}

var (
	stBold   = lipgloss.NewStyle().Bold(true)
	stDim    = lipgloss.NewStyle().Foreground(styles.Muted)
	stAccent = lipgloss.NewStyle().Foreground(styles.Accent)
	stError  = lipgloss.NewStyle().Foreground(styles.Error)
)

func render(s lipgloss.Style, text string) string {
	if styles.NoColor() || !isTTY {
		return text
	}
	return s.Render(text)
}

func main() {
	args := parseArgs()
	if len(args.sizes) == 0 {
		args.sizes = []int{10_000, 100_000}
	}

	if !args.jsonMode {
		printHeader(args)
	}

	var results []benchResult
	for _, n := range args.sizes {
		if !args.jsonMode {
			phaseHeader(formatCount(int64(n)), "rows")
		}
		r := benchmark(n, args)
		results = append(results, r)
		if !args.jsonMode {
			printResult(r)
		}
	}

	if args.jsonMode {
		writeJSONOutput(results, args.jsonPath)
	} else {
		printSummaryTable(results)
	}
	if args.reportPath != "" {
		if err := writeMarkdownReport(args.reportPath, results); err != nil {
			fatalMsg("Failed to write report: %v", err)
		}
		if !args.jsonMode {
			successMsg("Report written to %s", args.reportPath)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Results
// ═══════════════════════════════════════════════════════════════════════════

type benchResult struct {
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
	Timestamp string `json:"timestamp"`

	GenerateMillis float64 `json:"generate_ms"`
	FilterMillis   float64 `json:"filter_ms"`
	Matched        int     `json:"matched_rows"`
	SortMillis     float64 `json:"sort_ms"`

	// Per-operation averages over --iterations repetitions.
	ScrollMicros  float64 `json:"scroll_us"`
	FixedMicros   float64 `json:"fixed_frame_us"`
	VirtualMicros float64 `json:"virtual_frame_us"`
}

// ═══════════════════════════════════════════════════════════════════════════
// Argument parsing
// ═══════════════════════════════════════════════════════════════════════════

type cliArgs struct {
	sizes      []int
	iterations int
	seed       int64
	filter     string
	jsonMode   bool
	jsonPath   string // "" = stdout
	reportPath string
}

func parseArgs() cliArgs {
	args := cliArgs{
		iterations: 1000,
		seed:       1,
		filter:     `score > 500 and city ~ o`,
	}
	osArgs := os.Args[1:]

	for i := 0; i < len(osArgs); i++ {
		switch osArgs[i] {
		case "--iterations", "-n":
			if i+1 < len(osArgs) {
				i++
				n, err := strconv.Atoi(osArgs[i])
				if err != nil || n < 1 {
					fatalMsg("--iterations requires a positive integer, got: %s", osArgs[i])
				}
				args.iterations = n
			}
		case "--seed":
			if i+1 < len(osArgs) {
				i++
				n, err := strconv.ParseInt(osArgs[i], 10, 64)
				if err != nil {
					fatalMsg("--seed requires an integer, got: %s", osArgs[i])
				}
				args.seed = n
			}
		case "--filter":
			if i+1 < len(osArgs) {
				i++
				args.filter = osArgs[i]
			}
		case "--json", "-j":
			args.jsonMode = true
			if i+1 < len(osArgs) && !strings.HasPrefix(osArgs[i+1], "-") {
				if _, err := strconv.Atoi(osArgs[i+1]); err != nil {
					i++
					args.jsonPath = osArgs[i]
				}
			}
		case "--report", "-r":
			if i+1 < len(osArgs) {
				i++
				args.reportPath = osArgs[i]
			}
		case "--no-color":
			styles.SetNoColor(true)
		case "--help", "-h":
			printUsage()
			os.Exit(0)
		default:
			if strings.HasPrefix(osArgs[i], "-") {
				fatalMsg("Unknown option: %s", osArgs[i])
			}
			n, err := strconv.Atoi(strings.ReplaceAll(osArgs[i], "_", ""))
			if err != nil || n < 1 {
				fatalMsg("Row count must be a positive integer, got: %s", osArgs[i])
			}
			args.sizes = append(args.sizes, n)
		}
	}
	return args
}

func printUsage() {
	fmt.Printf(`%s - Engine and layout timings for gridview

%s
  gridview-bench [<rows>...] [options]

%s
  --iterations, -n <n>    Scroll and layout repetitions (default: 1000)
  --seed <n>              Random seed for generated rows (default: 1)
  --filter <expr>         Filter expression to time
  --report, -r <path>     Generate markdown report
  --json, -j [path]       JSON output (file path or stdout if omitted)
  --no-color              Disable colored output
  --help, -h              Show this help

%s
  gridview-bench
  gridview-bench 1000000 --iterations 200
  gridview-bench 10000 100000 --report bench.md --json results.json

`,
		render(stBold, "gridview-bench"),
		render(stBold, "Usage:"),
		render(stBold, "Options:"),
		render(stBold, "Examples:"))
}

// ═══════════════════════════════════════════════════════════════════════════
// Benchmark pipeline
// ═══════════════════════════════════════════════════════════════════════════

var benchKeys = []string{"id", "name", "city", "score", "active", "notes"}

var cities = []string{"Oslo", "Bergen", "Lisbon", "Osaka", "Quito", "Lyon", "Perth", "Tromsø"}

func generateRows(n int, seed int64) []grid.Row {
	rng := rand.New(rand.NewSource(seed))
	rows := make([]grid.Row, n)
	for i := range rows {
		var notes any
		if rng.Intn(4) > 0 {
			words := 1 + rng.Intn(12)
			notes = strings.TrimSpace(strings.Repeat("lorem ipsum ", words))
		}
		rows[i] = grid.NewRow(benchKeys, map[string]any{
			"id":     i,
			"name":   "user-" + strconv.Itoa(rng.Intn(n)),
			"city":   cities[rng.Intn(len(cities))],
			"score":  rng.Float64() * 1000,
			"active": rng.Intn(2) == 0,
			"notes":  notes,
		})
	}
	return rows
}

func newBenchTable(rows []grid.Row, layout grid.LayoutMode) *grid.Table {
	view := table.DefaultViewOptions()
	view.MaxColumnWidth = 24
	return table.NewGrid(rows, grid.Options{Layout: layout, PageSize: 40}, view)
}

func benchmark(n int, args cliArgs) benchResult {
	r := benchResult{
		Rows:      n,
		Columns:   len(benchKeys),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	start := time.Now()
	rows := generateRows(n, args.seed)
	r.GenerateMillis = millis(time.Since(start))

	t := newBenchTable(rows, grid.LayoutFixed)

	start = time.Now()
	if err := t.ApplyFilter(args.filter); err != nil {
		fatalMsg("Invalid filter %q: %v", args.filter, err)
	}
	r.Matched = t.Len()
	r.FilterMillis = millis(time.Since(start))

	start = time.Now()
	t.SetSort(grid.Sort{Column: "score", Direction: grid.DirectionDesc})
	t.Len()
	r.SortMillis = millis(time.Since(start))

	start = time.Now()
	for i := 0; i < args.iterations; i++ {
		dy := 1.0
		if i%3 == 2 {
			dy = -1
		}
		t.Wheel(grid.WheelEvent{DeltaY: dy})
		t.Page()
	}
	r.ScrollMicros = micros(time.Since(start), args.iterations)

	start = time.Now()
	for i := 0; i < args.iterations; i++ {
		t.Frame(40, 160)
	}
	r.FixedMicros = micros(time.Since(start), args.iterations)

	v := newBenchTable(rows, grid.LayoutVirtual)
	rng := rand.New(rand.NewSource(args.seed))
	start = time.Now()
	for i := 0; i < args.iterations; i++ {
		v.JumpTo(rng.Intn(max(1, v.Len())))
		v.Frame(40, 160)
	}
	r.VirtualMicros = micros(time.Since(start), args.iterations)

	return r
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func micros(d time.Duration, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(d.Nanoseconds()) / 1000 / float64(n)
}

// ═══════════════════════════════════════════════════════════════════════════
// Output
// ═══════════════════════════════════════════════════════════════════════════

func printResult(r benchResult) {
	infoMsg("Generate         %s", util.FormatElapsed(ms(r.GenerateMillis)))
	infoMsg("Filter           %s  %s", util.FormatElapsed(ms(r.FilterMillis)),
		render(stDim, fmt.Sprintf("(%s of %s rows match)", formatCount(int64(r.Matched)), formatCount(int64(r.Rows)))))
	infoMsg("Sort             %s", util.FormatElapsed(ms(r.SortMillis)))
	infoMsg("Scroll + page    %.1fµs/op", r.ScrollMicros)
	infoMsg("Fixed frame      %.1fµs/op", r.FixedMicros)
	infoMsg("Virtual frame    %.1fµs/op", r.VirtualMicros)
}

func ms(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}

func printSummaryTable(results []benchResult) {
	fmt.Println()
	sectionHeader("Summary")
	fmt.Println()

	fmt.Printf("  %12s %10s %10s %10s %12s %12s %12s\n",
		"Rows", "Generate", "Filter", "Sort", "Scroll/op", "Fixed/op", "Virtual/op")
	fmt.Printf("  %s\n", render(stDim, strings.Repeat("─", 84)))

	for _, r := range results {
		fmt.Printf("  %12s %10s %10s %10s %10.1fµs %10.1fµs %10.1fµs\n",
			formatCount(int64(r.Rows)),
			util.FormatElapsed(ms(r.GenerateMillis)),
			util.FormatElapsed(ms(r.FilterMillis)),
			util.FormatElapsed(ms(r.SortMillis)),
			r.ScrollMicros,
			r.FixedMicros,
			r.VirtualMicros)
	}
	fmt.Println()
}

func writeJSONOutput(results []benchResult, path string) {
	var w *os.File
	if path == "" {
		w = os.Stdout
	} else {
		var err error
		w, err = os.Create(path)
		if err != nil {
			fatalMsg("Failed to create JSON file: %v", err)
		}
		defer w.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if len(results) == 1 {
		_ = enc.Encode(results[0])
	} else {
		_ = enc.Encode(results)
	}
}

func writeMarkdownReport(path string, results []benchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	p := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	p("# gridview-bench Report")
	p("")
	p("**Date:** %s", time.Now().Format("2006-01-02 15:04:05"))
	p("")
	p("| Rows | Matched | Generate | Filter | Sort | Scroll/op | Fixed frame/op | Virtual frame/op |")
	p("|-----:|--------:|---------:|-------:|-----:|----------:|---------------:|-----------------:|")
	for _, r := range results {
		p("| %s | %s | %.1fms | %.1fms | %.1fms | %.1fµs | %.1fµs | %.1fµs |",
			formatCount(int64(r.Rows)), formatCount(int64(r.Matched)),
			r.GenerateMillis, r.FilterMillis, r.SortMillis,
			r.ScrollMicros, r.FixedMicros, r.VirtualMicros)
	}
	p("")

	return w.Flush()
}

func formatCount(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}

// ═══════════════════════════════════════════════════════════════════════════
// Terminal output helpers
// ═══════════════════════════════════════════════════════════════════════════

func printHeader(args cliArgs) {
	fmt.Println()
	fmt.Printf("%s %s\n", render(stAccent.Bold(true), "gridview-bench"), render(stDim, "- engine and layout timings"))
	fmt.Println(render(stDim, "════════════════════════════════════════════════════════════"))
	fmt.Printf("  Iterations:  %d\n", args.iterations)
	fmt.Printf("  Filter:      %s\n", args.filter)
	fmt.Printf("  Date:        %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(render(stDim, "════════════════════════════════════════════════════════════"))
}

func phaseHeader(count, title string) {
	fmt.Printf("\n%s %s %s %s\n\n",
		render(stAccent, "──"),
		render(stBold, count),
		render(stBold, title),
		render(stAccent, "──"))
}

func sectionHeader(title string) {
	fmt.Printf("  %s\n", render(stBold, title))
}

func infoMsg(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func successMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("  %s\n", styles.SuccessMsg(msg))
}

func fatalMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "\n  %s\n\n", render(stError, styles.ErrorMsg(msg)))
	os.Exit(1)
}
