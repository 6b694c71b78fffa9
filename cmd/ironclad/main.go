package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/ironclad-vids/ironclad/internal/config"
	"github.com/ironclad-vids/ironclad/pkg/dataset"
	"github.com/ironclad-vids/ironclad/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(config.DefaultFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	var cmdErr error
	switch os.Args[1] {
	case "write":
		cmdErr = runWrite(cfg, os.Args[2:])
	case "read":
		cmdErr = runRead(cfg, os.Args[2:])
	case "insert":
		cmdErr = runInsert(cfg, os.Args[2:])
	case "delete":
		cmdErr = runDelete(cfg, os.Args[2:])
	case "verify":
		cmdErr = runVerify(cfg, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: ironclad <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  write <input_file> [--data N] [--parity M] [--dataset name]")
	fmt.Println("  read <output_file> [--dataset name]")
	fmt.Println("  insert <offset> <text> [--dataset name]")
	fmt.Println("  delete <offset> <length> [--dataset name]")
	fmt.Println("  verify [--dataset name]")
}

func runWrite(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	data := fs.Int("data", int(cfg.DataShards), "number of data shards (N)")
	parity := fs.Int("parity", int(cfg.ParityShards), "number of parity shards (M)")
	name := fs.String("dataset", "default", "dataset name")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: ironclad write <input_file> [--data N] [--parity M] [--dataset name]")
	}
	inputPath := fs.Arg(0)

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	d, err := dataset.Create(datasetConfig(cfg, *name), uint16(*data), uint16(*parity), cfg.StripeSize, content)
	if err != nil {
		return err
	}

	logging.Logger.Info("write complete", "dataset", *name, "bytes", humanize.Bytes(uint64(len(content))), "stripes", d.Manifest().NumStripes)
	fmt.Printf("wrote dataset %q: %s across %d stripes\n", *name, humanize.Bytes(uint64(len(content))), d.Manifest().NumStripes)
	return nil
}

func runRead(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	name := fs.String("dataset", "default", "dataset name")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: ironclad read <output_file> [--dataset name]")
	}
	outputPath := fs.Arg(0)

	d, err := dataset.Open(datasetConfig(cfg, *name))
	if err != nil {
		return err
	}

	content, err := d.Read()
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	fmt.Printf("read dataset %q: %s\n", *name, humanize.Bytes(uint64(len(content))))
	return nil
}

func runInsert(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("insert", flag.ExitOnError)
	name := fs.String("dataset", "default", "dataset name")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return errors.New("usage: ironclad insert <offset> <text> [--dataset name]")
	}
	offset, err := strconv.ParseUint(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing offset: %w", err)
	}
	text := fs.Arg(1)

	d, err := dataset.Open(datasetConfig(cfg, *name))
	if err != nil {
		return err
	}
	if err := d.Insert(offset, []byte(text)); err != nil {
		return err
	}

	fmt.Printf("inserted %d bytes at offset %d into dataset %q\n", len(text), offset, *name)
	return nil
}

func runDelete(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	name := fs.String("dataset", "default", "dataset name")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return errors.New("usage: ironclad delete <offset> <length> [--dataset name]")
	}
	offset, err := strconv.ParseUint(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing offset: %w", err)
	}
	length, err := strconv.ParseUint(fs.Arg(1), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing length: %w", err)
	}

	d, err := dataset.Open(datasetConfig(cfg, *name))
	if err != nil {
		return err
	}
	if err := d.Delete(offset, length); err != nil {
		return err
	}

	fmt.Printf("deleted %d bytes at offset %d from dataset %q\n", length, offset, *name)
	return nil
}

func runVerify(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	name := fs.String("dataset", "default", "dataset name")
	fs.Parse(args)

	d, err := dataset.Open(datasetConfig(cfg, *name))
	if err != nil {
		return err
	}

	report, err := d.Verify()
	if err != nil {
		return err
	}

	for _, s := range report.Stripes {
		fmt.Println(s.Summary())
	}

	if !report.Healthy {
		return fmt.Errorf("dataset %q has one or more unrecoverable stripes", *name)
	}
	fmt.Printf("dataset %q is healthy (%d stripes)\n", *name, len(report.Stripes))
	return nil
}

func datasetConfig(cfg config.Config, name string) dataset.Config {
	return dataset.Config{StorageRoot: cfg.StorageRoot, Name: name}
}
