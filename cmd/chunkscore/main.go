// Command chunkscore scores passwords from the command line.
//
// It loads the model and rank artifacts once, scores every password given
// as an argument (or read from stdin, one per line), and prints the
// estimated guess number, probability, and dangerous-chunk flags.
//
// Usage:
//
//	chunkscore -model pcfg_model.json -rank pcfg_rank.json [flags] [password ...]
//
// Examples:
//
//	# Score a single password
//	chunkscore -model model.json -rank rank.json 'P@ssw0rd'
//
//	# Score a list from stdin as JSON lines
//	chunkscore -model model.json -rank rank.json -format json < passwords.txt
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"chunkmeter/internal/artifact"
	"chunkmeter/internal/meter"
)

func main() {
	modelSource := flag.String("model", "", "model artifact: local path or http(s) URL")
	rankSource := flag.String("rank", "", "rank artifact: local path or http(s) URL")
	format := flag.String("format", "text", "output format: text or json")
	timeout := flag.Duration("timeout", time.Minute, "artifact load timeout")
	flag.Parse()

	if *modelSource == "" || *rankSource == "" {
		fmt.Fprintln(os.Stderr, "chunkscore: -model and -rank are required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	model, err := artifact.LoadModel(ctx, *modelSource)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chunkscore: %v\n", err)
		os.Exit(1)
	}
	ranks, err := artifact.LoadRank(ctx, *rankSource)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chunkscore: %v\n", err)
		os.Exit(1)
	}
	session, err := meter.NewSession(model, ranks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chunkscore: %v\n", err)
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if flag.NArg() > 0 {
		for _, pwd := range flag.Args() {
			emit(out, *format, pwd, session.Score(pwd))
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		pwd := strings.TrimRight(scanner.Text(), "\r\n")
		if pwd == "" {
			continue
		}
		emit(out, *format, pwd, session.Score(pwd))
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "chunkscore: read stdin: %v\n", err)
		os.Exit(1)
	}
}

func emit(out *bufio.Writer, format, pwd string, result meter.Result) {
	if format == "json" {
		line, _ := json.Marshal(struct {
			Password string `json:"password"`
			meter.Result
		}{Password: pwd, Result: result})
		fmt.Fprintln(out, string(line))
		return
	}

	var dangerous []string
	for _, c := range result.Chunks {
		if c.Dangerous {
			dangerous = append(dangerous, c.Text)
		}
	}
	fmt.Fprintf(out, "%s\tguesses=%.0f\tprob=%.3g\tsegments=%s",
		pwd, result.GuessNumber, result.Prob, strings.Join(result.Segments, "|"))
	if len(dangerous) > 0 {
		fmt.Fprintf(out, "\tdangerous=%s", strings.Join(dangerous, "|"))
	}
	fmt.Fprintln(out)
}
