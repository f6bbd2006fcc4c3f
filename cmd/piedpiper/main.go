// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../../LICENSE.md.

package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/blanu/piedpiper/coder"
)

var log = logging.MustGetLogger("piedpiper")

const progName = "piedpiper"
const usageMessageRaw = `
Usage: piedpiper OPTIONS FILE... [PARAMS...]

Huffman-encode each FILE, report its original and encoded sizes, and
decode the result again with the same tree.

Options:
  --jobs N, -j N
	Encode up to N files at once.  Defaults to the number of CPUs.
  --quiet, -q
	Do not print decoded text.
  --debug, -d
	Log code tables and other details to standard error.

Parameters, each of the form KEY=VALUE.  Any other argument is a FILE,
so name a file called "trailing=x" as "./trailing=x".
  trailing=error|drop
	Fail on, or silently drop, bits that end inside a codeword.
  verify=true|false
	Check that every code table built is prefix-free.
`

var ourFlags *flag.FlagSet

func usageMessage() string {
	return strings.TrimLeft(usageMessageRaw, "\n")
}

func usageErrorf(detailFmt string, detailArgs ...interface{}) {
	detail := fmt.Sprintf(detailFmt, detailArgs...)
	fmt.Fprintf(os.Stderr, "%s: %s\n%s", progName, detail, usageMessage())
	os.Exit(64)
}

func exitError(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err.Error())
	os.Exit(1)
}

type nullWriter struct{}

func (n *nullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

// splitArgs separates KEY=VALUE parameters from file paths.  Only known keys are parameters, so a path such as
// "notes=old.txt" stays a path.
func splitArgs(args []string) (paths []string, unparsed map[string]string) {
	unparsed = make(map[string]string)
	for _, arg := range args {
		equals := strings.IndexRune(arg, '=')
		if equals < 0 || !coder.IsParamKey(arg[:equals]) {
			paths = append(paths, arg)
			continue
		}

		key, val := arg[:equals], arg[equals+1:]
		unparsed[key] = val
	}
	return
}

type result struct {
	path        string
	size        int64
	stats       coder.Stats
	fingerprint [32]byte
	decoded     string
}

func processFile(ctx context.Context, path string, params *coder.Params) (*result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c, err := coder.Open(path, params)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	bits, err := c.Encode(ctx)
	if err != nil {
		return nil, err
	}
	log.Debugf("%s: %v", path, c.Tree())

	decoded, err := c.Decode(bits)
	if err != nil {
		return nil, err
	}

	sum, err := coder.Fingerprint(bits)
	if err != nil {
		return nil, err
	}

	return &result{
		path:        path,
		size:        info.Size(),
		stats:       c.Stats(),
		fingerprint: sum,
		decoded:     decoded,
	}, nil
}

func processFiles(paths []string, params *coder.Params, jobs int) ([]*result, error) {
	results := make([]*result, len(paths))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := processFile(ctx, path, params)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func report(w io.Writer, res *result, named, quiet bool) {
	// For commas between thousands.
	p := message.NewPrinter(language.English)

	prefix := ""
	if named {
		prefix = res.path + ": "
	}

	p.Fprintf(w, "%sFile is %d bytes\n", prefix, res.size)
	p.Fprintf(w, "%sEncoded value has %d bytes (%d bits, %d symbols, %d distinct)\n",
		prefix, res.stats.Bytes(), res.stats.Bits, res.stats.Symbols, res.stats.Distinct)
	fmt.Fprintf(w, "%sFingerprint %s\n", prefix, hex.EncodeToString(res.fingerprint[:]))
	if !quiet {
		fmt.Fprintf(w, "%sDecoded value is %s\n", prefix, strings.TrimSuffix(res.decoded, "\n"))
	}
}

func startLogging() logging.LeveledBackend {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatSpec := "%{level:8s} %{module:-20s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	return leveled
}

func main() {
	leveled := startLogging()

	ourFlags = flag.NewFlagSet(progName, flag.ContinueOnError)
	ourFlags.Usage = func() {}
	ourFlags.SetOutput(&nullWriter{})

	// Usage strings are hardcoded above.

	var debugLogging, quiet bool
	var jobs int
	ourFlags.IntVar(&jobs, "jobs", runtime.NumCPU(), "")
	ourFlags.IntVar(&jobs, "j", runtime.NumCPU(), "")
	ourFlags.BoolVar(&quiet, "quiet", false, "")
	ourFlags.BoolVar(&quiet, "q", false, "")
	ourFlags.BoolVar(&debugLogging, "debug", false, "")
	ourFlags.BoolVar(&debugLogging, "d", false, "")

	argErr := ourFlags.Parse(os.Args[1:])
	if argErr == flag.ErrHelp {
		io.WriteString(os.Stdout, usageMessage())
		os.Exit(0)
	} else if argErr != nil {
		usageErrorf("%s", argErr.Error())
	}

	if debugLogging {
		leveled.SetLevel(logging.DEBUG, "")
	}
	if jobs < 1 {
		usageErrorf("--jobs must be at least 1")
	}

	paths, unparsed := splitArgs(ourFlags.Args())
	if len(paths) == 0 {
		usageErrorf("not enough arguments; expected FILE")
	}

	params, err := coder.ParseParams(unparsed)
	if err != nil {
		usageErrorf("%s", err.Error())
	}

	results, err := processFiles(paths, params, jobs)
	if err != nil {
		exitError(err)
	}

	for _, res := range results {
		report(os.Stdout, res, len(results) > 1, quiet)
	}
}
