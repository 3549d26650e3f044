// assetpack builds and inspects asset packs.
//
//	assetpack build [--out DIR] [--compression zstd|none] [--manifest FILE] SRC
//	assetpack list [--index FILE] [--data FILE]
//	assetpack verify [--index FILE] [--data FILE]
//
// build writes assets.index and assets.data for the files under SRC and can
// emit a registration manifest with kinds inferred from file extensions.
// The outputs are meant to be embedded with //go:embed and opened with
// pack.OpenBytes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/meigma/asset/manifest"
	"github.com/meigma/asset/pack"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: assetpack build|list|verify [flags]")
	}
	switch args[0] {
	case "build":
		return build(ctx, args[1:], stdout)
	case "list":
		return list(args[1:], stdout)
	case "verify":
		return verify(args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func build(ctx context.Context, args []string, stdout io.Writer) error {
	var (
		outDir       string
		compression  string
		manifestPath string
		maxFiles     int
		verbose      bool
	)
	flagSet := pflag.NewFlagSet("assetpack build", pflag.ContinueOnError)
	flagSet.StringVarP(&outDir, "out", "o", ".", "directory for the index and data blobs")
	flagSet.StringVar(&compression, "compression", "zstd", "entry compression: zstd or none")
	flagSet.StringVar(&manifestPath, "manifest", "", "also write a registration manifest to this file")
	flagSet.IntVar(&maxFiles, "max-files", 0, "maximum number of files (0 = default limit, negative = unlimited)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every entry")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return errors.New("usage: assetpack build [flags] SRC")
	}
	src := flagSet.Arg(0)

	comp, err := pack.ParseCompression(compression)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	indexFile, err := os.Create(filepath.Join(outDir, pack.DefaultIndexName))
	if err != nil {
		return err
	}
	defer indexFile.Close()
	dataFile, err := os.Create(filepath.Join(outDir, pack.DefaultDataName))
	if err != nil {
		return err
	}
	defer dataFile.Close()

	err = pack.Create(ctx, src, indexFile, dataFile,
		pack.CreateWithCompression(comp),
		pack.CreateWithSkipCompression(pack.DefaultSkipCompression(512)),
		pack.CreateWithMaxFiles(maxFiles),
		pack.CreateWithLogger(logger),
	)
	if err != nil {
		return err
	}
	if err := indexFile.Close(); err != nil {
		return err
	}
	if err := dataFile.Close(); err != nil {
		return err
	}

	if manifestPath != "" {
		if err := writeManifest(indexFile.Name(), dataFile.Name(), manifestPath); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "wrote %s and %s\n", indexFile.Name(), dataFile.Name())
	return nil
}

func writeManifest(indexPath, dataPath, manifestPath string) error {
	p, err := pack.OpenFile(indexPath, dataPath)
	if err != nil {
		return err
	}
	defer p.Close()

	paths := make([]string, 0, p.Len())
	for e := range p.Entries() {
		paths = append(paths, e.Path)
	}

	f, err := os.Create(manifestPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := manifest.FromPaths(paths).Encode(f); err != nil {
		return err
	}
	return f.Close()
}

func packFlags(name string, args []string) (string, string, error) {
	var indexPath, dataPath string
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&indexPath, "index", pack.DefaultIndexName, "index blob")
	flagSet.StringVar(&dataPath, "data", pack.DefaultDataName, "data blob")
	if err := flagSet.Parse(args); err != nil {
		return "", "", err
	}
	return indexPath, dataPath, nil
}

func list(args []string, stdout io.Writer) error {
	indexPath, dataPath, err := packFlags("assetpack list", args)
	if err != nil {
		return err
	}
	p, err := pack.OpenFile(indexPath, dataPath)
	if err != nil {
		return err
	}
	defer p.Close()

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSIZE\tSTORED\tCOMPRESSION\tDIGEST")
	for e := range p.Entries() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", e.Path, e.OriginalSize, e.Size, e.Compression, e.Digest.Encoded()[:12])
	}
	return tw.Flush()
}

func verify(args []string, stdout io.Writer) error {
	indexPath, dataPath, err := packFlags("assetpack verify", args)
	if err != nil {
		return err
	}
	p, err := pack.OpenFile(indexPath, dataPath, pack.WithVerifyData(true))
	if err != nil {
		return err
	}
	defer p.Close()

	var errs []error
	for e := range p.Entries() {
		if _, err := p.ReadFile(e.Path); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d entries verified\n", p.Len())
	return nil
}
