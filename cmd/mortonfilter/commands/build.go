// Package commands provides the mortonfilter CLI's subcommands.
package commands

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/anastasiam/mortonfilter/internal/fnvhash"
	"github.com/anastasiam/mortonfilter/morton"
	"github.com/anastasiam/mortonfilter/pkg/config"
)

// hashFlag is a pflag.Value that only accepts the hash function names
// resolveHash understands, rejecting anything else at flag-parse time
// instead of silently falling back to the default at run time.
type hashFlag struct {
	name string
	set  bool
}

func (h *hashFlag) String() string {
	if h.name == "" {
		return "xxhash"
	}
	return h.name
}

func (h *hashFlag) Set(v string) error {
	switch v {
	case "xxhash", "fnv":
		h.name = v
		h.set = true
		return nil
	default:
		return fmt.Errorf("unknown hash %q, want xxhash or fnv", v)
	}
}

func (h *hashFlag) Type() string { return "hash" }

var _ pflag.Value = (*hashFlag)(nil)

// BuildCommand holds the flags for the build command: read items, insert
// them into a freshly constructed filter, and write the serialized result.
type BuildCommand struct {
	configPath string
	verbose    bool
	hash       hashFlag
}

// NewBuildCommand creates and configures the build command.
func NewBuildCommand() *cobra.Command {
	bc := &BuildCommand{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a Morton filter from a newline-delimited item file and serialize it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bc.run()
		},
	}
	cmd.Flags().StringVarP(&bc.configPath, "config", "c", "mortonfilter.yaml", "path to the driver config file")
	cmd.Flags().BoolVarP(&bc.verbose, "verbose", "v", false, "log each item's insert outcome")
	cmd.Flags().VarP(&bc.hash, "hash", "H", "hash32 implementation to use: xxhash or fnv (overrides config)")

	return cmd
}

func (bc *BuildCommand) run() error {
	cfg, err := config.Load(bc.configPath)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if bc.verbose {
		cfg.Verbose = true
	}
	if bc.hash.set {
		cfg.HashFunc = bc.hash.name
	}

	items, err := readItems(cfg.Input)
	if err != nil {
		return fmt.Errorf("build: reading input %s: %w", cfg.Input, err)
	}

	blockCount := cfg.BlockCount
	params := cfg.Params()
	if blockCount == 0 {
		blockCount = morton.RecommendedBlockCount(len(items), params)
	}

	hash32 := resolveHash(cfg.HashFunc)
	mf, err := morton.New(blockCount, hash32, morton.WithParams(params))
	if err != nil {
		return fmt.Errorf("build: constructing filter: %w", err)
	}

	var failed int
	for _, item := range items {
		outcome, err := mf.InsertWithOutcome(item)
		if err != nil {
			failed++
			if cfg.Verbose {
				log.Printf("failed: %q: %v", item, err)
			}
			continue
		}
		if cfg.Verbose {
			log.Printf("%s: %q", outcome, item)
		}
	}

	if err := os.WriteFile(cfg.Output, []byte(mf.Serialize()), 0o644); err != nil {
		return fmt.Errorf("build: writing output %s: %w", cfg.Output, err)
	}

	log.Printf("built filter: %d blocks, %d items, %d insert failures, written to %s",
		mf.BlockCount(), len(items), failed, cfg.Output)
	return nil
}

// readItems reads one item per line from path.
func readItems(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var items [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		items = append(items, []byte(line))
	}
	return items, scanner.Err()
}

// resolveHash maps a configured hash function name to a morton.Hash32Func.
func resolveHash(name string) morton.Hash32Func {
	switch name {
	case "fnv":
		return fnvhash.FNV32a
	default:
		return fnvhash.XXHash32
	}
}
