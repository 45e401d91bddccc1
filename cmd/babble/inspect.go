package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/babble/internal/corpus"
	"github.com/samcharles93/babble/internal/inference"
	"github.com/samcharles93/babble/internal/markov"
)

func inspectCmd() *cli.Command {
	var (
		after   string
		top     int64
		jsonOut bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print model statistics and the most likely successors of a context",
		Flags: append(commonCorpusFlags(),
			&cli.StringFlag{
				Name:        "after",
				Usage:       "text whose trailing tokens form the context to inspect (default: start of text)",
				Destination: &after,
			},
			&cli.Int64Flag{
				Name:        "top",
				Usage:       "number of successors to list",
				Value:       10,
				Destination: &top,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print machine-readable JSON",
				Destination: &jsonOut,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			loaded, err := loadModel(ctx, c, LoadConfig())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			report := buildInspectReport(loaded, after, int(top))
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printInspectReport(os.Stdout, report)
			return nil
		},
	}
}

type successor struct {
	Token       string  `json:"token"`
	Count       uint64  `json:"count"`
	Probability float64 `json:"probability"`
}

type inspectReport struct {
	Sources    []string      `json:"sources"`
	Bytes      int64         `json:"bytes"`
	LoadTime   time.Duration `json:"load_time_ns"`
	Stats      markov.Stats  `json:"stats"`
	Context    []string      `json:"context"`
	Total      uint64        `json:"total"`
	Successors []successor   `json:"successors"`
}

func buildInspectReport(loaded *inference.LoadResult, after string, n int) inspectReport {
	m := loaded.Model
	ctx := markov.Start[string]()
	for tok := range corpus.Tokens(after) {
		ctx = ctx.Push(tok, m.Order())
	}
	d := m.Distribution(ctx)
	return inspectReport{
		Sources:    loaded.Sources,
		Bytes:      loaded.Bytes,
		LoadTime:   loaded.LoadTime,
		Stats:      m.Stats(),
		Context:    ctx.Tokens(),
		Total:      d.Total(),
		Successors: topSuccessors(d, n),
	}
}

// topSuccessors returns the n most frequent successors, most frequent first.
// Ties keep first-seen order.
func topSuccessors(d *markov.Distribution[string], n int) []successor {
	out := make([]successor, 0, d.Len())
	total := float64(d.Total())
	for tok, count := range d.All() {
		out = append(out, successor{
			Token:       tok,
			Count:       count,
			Probability: float64(count) / total,
		})
	}
	slices.SortStableFunc(out, func(a, b successor) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func printInspectReport(w io.Writer, r inspectReport) {
	fmt.Fprintf(w, "sources:     %s\n", strings.Join(r.Sources, ", "))
	fmt.Fprintf(w, "size:        %s\n", formatSize(r.Bytes))
	fmt.Fprintf(w, "load time:   %s\n", r.LoadTime)
	fmt.Fprintf(w, "order:       %d\n", r.Stats.Order)
	fmt.Fprintf(w, "tokens:      %d\n", r.Stats.Tokens)
	fmt.Fprintf(w, "vocabulary:  %d\n", r.Stats.Vocabulary)
	fmt.Fprintf(w, "contexts:    %d\n", r.Stats.Contexts)
	fmt.Fprintf(w, "transitions: %d\n", r.Stats.Transitions)

	label := "<start>"
	if len(r.Context) > 0 {
		quoted := make([]string, len(r.Context))
		for i, t := range r.Context {
			quoted[i] = strconv.Quote(t)
		}
		label = strings.Join(quoted, " ")
	}
	fmt.Fprintf(w, "\nsuccessors of %s (%d observations):\n", label, r.Total)
	if len(r.Successors) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for _, s := range r.Successors {
		fmt.Fprintf(w, "  %-20s %8d  %6.2f%%\n", strconv.Quote(s.Token), s.Count, s.Probability*100)
	}
}
