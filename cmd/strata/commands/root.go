package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/org/strata/pkg/bindings"
)

var (
	// Global flags
	manifestPath string
	bindingName  string
	verbose      bool
)

// NewRootCommand creates the strata command with subcommands
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strata",
		Short: "Typed client for object storage bindings",
		Long: `Strata wraps object-storage, key-value, and SQL bindings behind
typed facades. Storage failures come back as one of a closed set of
error kinds instead of raw provider errors, and "no value" outcomes
(missing keys, failed preconditions) are reported distinctly from
failures.`,
		Example: `  # Store and fetch an object
  strata object put greeting.txt --file hello.txt
  strata object get greeting.txt

  # Upload a large file in parts
  strata multipart new videos/cat.mp4

  # Check a bindings manifest without connecting
  strata bindings validate`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "bindings.yaml", "Path to the bindings manifest")
	cmd.PersistentFlags().StringVarP(&bindingName, "binding", "b", "", "Bucket binding to use (default: first bucket in the manifest)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.AddCommand(newObjectCommand())
	cmd.AddCommand(newMultipartCommand())
	cmd.AddCommand(newBindingsCommand())

	return cmd
}

// newLogger builds the CLI logger; verbosity 1 carries the facade's
// per-failure records.
func newLogger() logr.Logger {
	level := 0
	if verbose {
		level = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
		} else {
			fmt.Fprintln(os.Stderr, args)
		}
	}, funcr.Options{Verbosity: level})
}

// resolveEnv loads the manifest and connects its bindings.
func resolveEnv(ctx context.Context) (*bindings.Env, error) {
	m, err := bindings.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	return bindings.NewResolver(bindings.WithLogger(newLogger())).Resolve(ctx, m)
}

// selectBucket picks the bucket binding named by --binding, or the
// only one when the manifest has a single bucket.
func selectBucket(env *bindings.Env) (string, error) {
	if bindingName != "" {
		if _, ok := env.Buckets[bindingName]; !ok {
			return "", fmt.Errorf("no bucket binding named %q in %s", bindingName, manifestPath)
		}
		return bindingName, nil
	}
	if len(env.Buckets) == 1 {
		for name := range env.Buckets {
			return name, nil
		}
	}
	return "", fmt.Errorf("manifest has %d bucket bindings; pick one with --binding", len(env.Buckets))
}
