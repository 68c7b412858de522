// khc computes, for each query sequence, the fraction of every subject
// sequence's k-mer positions hit by at least one k-mer drawn from the query
// (spec.md §6). It is a thin flags-and-I/O shell around the database,
// kmerindex, binfmt, and seqio packages; all matching logic lives there.
//
// Shaped after cmd/bio-fusion/main.go and cmd/bio-pileup/main.go: a flat set
// of flag variables whose values are copied onto a database.DefaultOpts
// value, grailbio/base/log
// for progress and fatal errors, grailbio/base/file for path-transparent I/O,
// grailbio/base/grail for process setup.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/zwets/khc/binfmt"
	"github.com/zwets/khc/database"
	"github.com/zwets/khc/errs"
	"github.com/zwets/khc/kmerindex"
	"github.com/zwets/khc/seqio"
)

var (
	kFlag       = flag.Int("k", 0, "k-mer size (odd, 1..31); required if SUBJECTS is FASTA")
	covFlag     = flag.Float64("c", 90.0, "coverage threshold percent")
	maxVarFlag  = flag.Int("j", 1024, "max variants per subject k-mer (0 = unlimited)")
	skipFlag    = flag.Bool("s", false, "skip query k-mers containing degenerate bases")
	tagFlag     = flag.Bool("t", false, `prefix each query's output with "## Query: NAME"`)
	writeFlag   = flag.String("w", "", "write binary index to FILE")
	memFlag     = flag.Int("m", 0, "memory budget in GiB (default: physical minus 2 GiB)")
	verboseFlag = flag.Bool("v", false, "verbose progress on stderr")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] SUBJECTS [QUERY ...]\n\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() < 1 {
		usage()
		log.Fatal("missing SUBJECTS argument")
	}

	ctx := vcontext.Background()

	budget := kmerindex.DefaultBudget()
	if *memFlag > 0 {
		budget = kmerindex.Budget{Bytes: uint64(*memFlag) << 30}
	}

	opts := database.DefaultOpts
	opts.KmerLength = *kFlag
	opts.MaxVariants = *maxVarFlag
	opts.MinCoveragePercent = *covFlag
	opts.SkipDegenerates = *skipFlag
	opts.MemoryBudget = budget

	db, err := loadOrBuildDatabase(ctx, flag.Arg(0), &opts)
	if err != nil {
		log.Fatal(err)
	}

	if *writeFlag != "" {
		if err := writeIndex(ctx, *writeFlag, db); err != nil {
			log.Fatal(err)
		}
	}

	queryPaths := flag.Args()[1:]
	if len(queryPaths) == 0 {
		queryPaths = []string{"-"}
	}

	first := true
	for _, qp := range queryPaths {
		if err := runQueries(ctx, qp, db, *tagFlag, &first); err != nil {
			log.Fatal(err)
		}
	}
}

// loadOrBuildDatabase opens path and either reads a previously-written
// binary index (magic '~') or builds a fresh TemplateDatabase from FASTA or
// bare sequence text, per spec.md §6's subject format detection.
func loadOrBuildDatabase(ctx context.Context, path string, opts *database.Opts) (*database.TemplateDatabase, error) {
	r, closeFn, err := openPath(ctx, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	br := bufio.NewReaderSize(r, 1<<16)
	gz, err := seqio.MaybeGunzip(br)
	if err != nil {
		return nil, err
	}
	// Detect must run on the decompressed stream: a gzipped FASTA/FASTQ
	// file's first byte is gzip's own magic, not '>'/'@', and would
	// otherwise be misdetected as bare text. A binary khc index is never
	// gzipped, so sniffing after gunzip is still safe for it.
	gbr := bufio.NewReaderSize(gz, 1<<16)
	format, err := seqio.Detect(gbr)
	if err != nil {
		return nil, err
	}

	if format == seqio.FormatBinary {
		if *verboseFlag {
			log.Printf("%s: reading binary index", path)
		}
		return loadDatabase(gbr, opts)
	}

	if opts.KmerLength == 0 {
		return nil, errs.Usagef("-k is required when SUBJECTS (%s) is not a binary index", path)
	}
	reader := newSequenceReader(format, gbr, baseName(path))
	if *verboseFlag {
		log.Printf("%s: building database (k=%d, max-variants=%d)", path, opts.KmerLength, opts.MaxVariants)
	}
	db, err := database.Build(reader, *opts)
	if err != nil {
		return nil, err
	}
	if *verboseFlag {
		log.Printf("%s: indexed %d subjects, %d distinct k-mer codes", path, len(db.Subjects()), db.Index().Size())
	}
	return db, nil
}

// loadDatabase reads a binfmt-encoded index from br and adopts the file's
// own k (expectedK=0 skips the check, per binfmt.Read's contract) so a -k
// flag is optional once an index has been built.
func loadDatabase(br *bufio.Reader, opts *database.Opts) (*database.TemplateDatabase, error) {
	header, subjects, idx, err := binfmt.Read(br, opts.KmerLength, func(k int) (kmerindex.Persistable, error) {
		return kmerindex.New(k, opts.MemoryBudget)
	})
	if err != nil {
		return nil, err
	}
	opts.KmerLength = header.KSize
	if opts.MaxVariants == 0 {
		opts.MaxVariants = header.MaxVariants
	}
	dbSubjects := make([]database.Subject, len(subjects))
	for i, s := range subjects {
		dbSubjects[i] = database.Subject{ID: s.ID, Length: s.Length}
	}
	return database.FromPersisted(dbSubjects, idx, *opts, header.TotalBases), nil
}

// writeIndex persists db's subjects and index to path in binfmt's binary
// layout (spec.md §4.9, §6).
func writeIndex(ctx context.Context, path string, db *database.TemplateDatabase) error {
	f, err := file.Create(ctx, path)
	if err != nil {
		return errs.Wrap(errs.IO, err, "creating %s", path)
	}
	subjects := db.Subjects()
	binSubjects := make([]binfmt.Subject, len(subjects))
	for i, s := range subjects {
		binSubjects[i] = binfmt.Subject{ID: s.ID, Length: s.Length}
	}
	header := binfmt.Header{
		NumSequences: len(subjects),
		TotalBases:   db.TotalBases(),
		KSize:        db.KSize(),
		MaxVariants:  *maxVarFlag,
	}
	if err := binfmt.Write(f.Writer(ctx), header, binSubjects, db.Index()); err != nil {
		_ = f.Close(ctx)
		return err
	}
	if err := f.Close(ctx); err != nil {
		return errs.Wrap(errs.IO, err, "closing %s", path)
	}
	if *verboseFlag {
		log.Printf("%s: wrote binary index (%d subjects)", path, len(subjects))
	}
	return nil
}

// runQueries streams every sequence in the file at path against db,
// printing matching subjects to stdout. first tracks whether any query has
// been printed yet, across all query paths, so the "single empty line"
// separator (spec.md §6) lands only between queries, never before the
// first or after the last.
func runQueries(ctx context.Context, path string, db *database.TemplateDatabase, tag bool, first *bool) error {
	r, closeFn, err := openPath(ctx, path)
	if err != nil {
		return err
	}
	defer closeFn()

	br := bufio.NewReaderSize(r, 1<<16)
	gz, err := seqio.MaybeGunzip(br)
	if err != nil {
		return err
	}
	// As in loadOrBuildDatabase: detect on the decompressed stream so
	// gzipped FASTA/FASTQ queries aren't misread as bare text.
	gbr := bufio.NewReaderSize(gz, 1<<16)
	format, err := seqio.Detect(gbr)
	if err != nil {
		return err
	}
	if format == seqio.FormatBinary {
		return errs.Usagef("%s: a binary index cannot be used as a query", path)
	}
	reader := newSequenceReader(format, gbr, baseName(path))

	for reader.Scan() {
		seq := reader.Sequence()
		hits, err := db.Query(seq.Data)
		if err != nil {
			return err
		}
		if !*first {
			fmt.Println()
		}
		*first = false
		if tag {
			fmt.Printf("## Query: %s\n", seq.ID)
		}
		for _, h := range hits {
			fmt.Printf("%s %d %d %g\n", h.ID, h.Length, h.Hits, h.Percent)
		}
	}
	return reader.Err()
}

// newSequenceReader builds the seqio.Reader matching a sniffed Format. Bare
// input is given a synthetic ID derived from the file's base name, since
// spec.md's bare format carries no header of its own.
func newSequenceReader(format seqio.Format, r io.Reader, bareID string) seqio.Reader {
	switch format {
	case seqio.FormatFASTA:
		return seqio.NewFASTAReader(r)
	case seqio.FormatFASTQ:
		return seqio.NewFASTQReader(r)
	default:
		return seqio.NewBareReader(r, bareID)
	}
}

// openPath opens path for reading, treating "" and "-" as standard input,
// and any other path through grailbio/base/file (which extends transparently
// to s3:// and other remote schemes the same way cmd/bio-fusion's readFASTQ
// does).
func openPath(ctx context.Context, path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.IO, err, "opening %s", path)
	}
	return f.Reader(ctx), func() error { return f.Close(ctx) }, nil
}

func baseName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}
