package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/org/strata/pkg/storage"
)

// newObjectCommand creates the object subcommand
func newObjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object",
		Short: "Head, get, put, delete and list objects",
	}

	cmd.AddCommand(newObjectHeadCommand())
	cmd.AddCommand(newObjectGetCommand())
	cmd.AddCommand(newObjectPutCommand())
	cmd.AddCommand(newObjectDeleteCommand())
	cmd.AddCommand(newObjectListCommand())

	return cmd
}

func newObjectHeadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "head KEY",
		Short: "Print an object's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			info, err := env.Buckets[name].Head(cmd.Context(), args[0])
			if err != nil {
				return describeFailure(err)
			}
			if info == nil {
				fmt.Printf("%s: not found\n", args[0])
				return nil
			}
			printInfo(info)
			return nil
		},
	}
}

func newObjectGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Download an object to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			obj, err := env.Buckets[name].Get(cmd.Context(), args[0], nil)
			if err != nil {
				return describeFailure(err)
			}
			if obj == nil {
				fmt.Printf("%s: not found\n", args[0])
				return nil
			}
			defer obj.Body.Close()

			dst := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				dst = f
			}
			_, err = io.Copy(dst, obj.Body)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the object to this file instead of stdout")
	return cmd
}

func newObjectPutCommand() *cobra.Command {
	var (
		file        string
		contentType string
		ifAbsent    bool
	)

	cmd := &cobra.Command{
		Use:   "put KEY",
		Short: "Upload an object from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			src := io.Reader(os.Stdin)
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			opts := &storage.PutOptions{ContentType: contentType}
			if ifAbsent {
				opts.OnlyIf = &storage.Conditions{ETagDoesNotMatch: "*"}
			}

			info, err := env.Buckets[name].Put(cmd.Context(), args[0], src, opts)
			if err != nil {
				return describeFailure(err)
			}
			if info == nil {
				fmt.Printf("%s: not stored, object already exists\n", args[0])
				return nil
			}
			fmt.Printf("stored %s (etag %s)\n", info.Key, info.ETag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the object from this file instead of stdin")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content type to store with the object")
	cmd.Flags().BoolVar(&ifAbsent, "if-absent", false, "Store only when the key does not exist yet")
	return cmd
}

func newObjectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY [KEY...]",
		Short: "Delete one or more objects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			if err := env.Buckets[name].Delete(cmd.Context(), args...); err != nil {
				return describeFailure(err)
			}
			fmt.Printf("deleted %d object(s)\n", len(args))
			return nil
		},
	}
}

func newObjectListCommand() *cobra.Command {
	var (
		prefix string
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			page, err := env.Buckets[name].List(cmd.Context(), &storage.ListOptions{
				Prefix: prefix,
				Limit:  limit,
				Cursor: cursor,
			})
			if err != nil {
				return describeFailure(err)
			}
			for _, obj := range page.Objects {
				fmt.Printf("%12d  %s\n", obj.Size, obj.Key)
			}
			if page.Truncated {
				fmt.Printf("more results available, continue with --cursor %s\n", page.Cursor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "List only keys with this prefix")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size (0 for the provider default)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Resume a truncated listing")
	return cmd
}

func printInfo(info *storage.ObjectInfo) {
	fmt.Printf("key:           %s\n", info.Key)
	fmt.Printf("size:          %d\n", info.Size)
	fmt.Printf("etag:          %s\n", info.ETag)
	if info.ContentType != "" {
		fmt.Printf("content-type:  %s\n", info.ContentType)
	}
	if !info.LastModified.IsZero() {
		fmt.Printf("last-modified: %s\n", info.LastModified)
	}
	for k, v := range info.Metadata {
		fmt.Printf("meta %s: %s\n", k, v)
	}
}

// describeFailure annotates retryable kinds so operators know a rerun
// may succeed; everything else passes through as-is.
func describeFailure(err error) error {
	e, ok := storage.AsError(err)
	if !ok {
		return err
	}
	switch e.Kind {
	case storage.KindRateLimited, storage.KindTooMuchConcurrency:
		return fmt.Errorf("%w (transient, retry with backoff)", err)
	}
	return err
}
